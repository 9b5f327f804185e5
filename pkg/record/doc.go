// Package record encodes and decodes a group's record file.
//
// A record has three labelled sections in a fixed order, one entry per line
// and one blank line between sections:
//
//	[PACKAGES]
//	git
//
//	[CONFIGS]
//	home_dir/.vimrc
//
//	[SCRIPTS]
//	setup.sh
//
// Decode is lenient (missing, repeated or reordered sections, stray blank
// lines, CRLF) and Encode always emits the canonical layout, so a
// Decode/Encode pass heals a hand-edited file.
package record
