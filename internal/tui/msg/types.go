// Package msg defines the Bubble Tea messages the shell receives from
// outside its Update loop.
package msg

import "github.com/Iron-Ham/classdesk/internal/config"

// ConfigReloadedMsg carries a configuration that changed on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ErrMsg wraps an error to be displayed in the status line.
type ErrMsg struct {
	Err error
}

// NavigateMsg asks the shell to go to a path, as if typed in the address bar.
type NavigateMsg struct {
	Path string
}
