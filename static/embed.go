package static

import "embed"

//go:embed index.html login.html js/* css/*
var FS embed.FS
