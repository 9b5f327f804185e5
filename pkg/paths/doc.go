// Package paths provides centralized path handling for alps.
//
// Everything alps owns lives below a single root directory, by default
// $XDG_CONFIG_HOME/alps:
//
//	<root>/<group>/<group>.record     the group's declaration
//	<root>/<group>/configs/<name>     mirrored configuration trees
//	<root>/<group>/scripts/<name>     mirrored scripts
//
// Configuration entries are stored with the user's home directory replaced
// by a placeholder token (home_dir by default) so that a record can be
// shared between machines with different home paths. Template and
// Detemplate convert between the two forms.
//
// # Usage
//
//	p, err := paths.New(paths.Options{})
//	if err != nil {
//	    return err
//	}
//
//	p.RecordPath("dev")                     // ~/.config/alps/dev/dev.record
//	p.Template("/home/me/.vimrc")           // home_dir/.vimrc
//	p.Detemplate("home_dir/.config/nvim")   // /home/me/.config/nvim
package paths
