// Package workspace binds a voice store to the file it was opened from and
// implements the save and close flow around the modified flag.
package workspace
