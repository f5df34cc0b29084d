// Package file keeps docqa's user-editable state under ~/.docqa:
// config.toml, read and written by ConfigStore, and the prompts/ directory
// served by PromptStore. Both tolerate hand edits.
package file
