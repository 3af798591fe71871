package cli

// Test-only accessors for unexported commands
var CmdDatasetImport = cmdDatasetImport
