// Package storage writes generated calendar files to disk.
//
// Each run replaces the calendar file completely; nothing from a previous run is
// read back or merged. Parent directories are created as needed and a leading "~/"
// is expanded to the user's home directory.
package storage
