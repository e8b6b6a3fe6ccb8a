package mediabridge

import (
	"fmt"
	"time"
)

// CommandType tags a PlayerCommand.
type CommandType string

const (
	CommandPlay      CommandType = "play"
	CommandPause     CommandType = "pause"
	CommandContinue  CommandType = "continue"
	CommandStop      CommandType = "stop"
	CommandSetVolume CommandType = "setVolume"
	CommandSeek      CommandType = "seek"
	CommandSetLoop   CommandType = "setLoop"
	CommandSetMute   CommandType = "setMute"
	CommandSetSpeed  CommandType = "setSpeed"
	CommandSetAspect CommandType = "setAspect"
)

// Command is a fire-and-forget instruction from the host UI. Only the field
// matching Type is meaningful.
type Command struct {
	Type     CommandType `json:"type"`
	URL      string      `json:"url,omitempty"`
	Volume   int         `json:"volume,omitempty"`
	Position int64       `json:"position,omitempty"`
	Flag     bool        `json:"flag,omitempty"`
	Speed    float64     `json:"speed,omitempty"`
	Aspect   string      `json:"aspect,omitempty"`
}

// Apply executes cmd against the bridge. Commands are not queued; the most
// recent one wins.
func (b *Bridge) Apply(cmd Command) error {
	switch cmd.Type {
	case CommandPlay:
		b.Play(cmd.URL, time.Duration(cmd.Position)*time.Millisecond)
	case CommandPause:
		b.Pause()
	case CommandContinue:
		b.Continue()
	case CommandStop:
		b.Stop()
	case CommandSetVolume:
		b.SetVolume(cmd.Volume)
	case CommandSeek:
		b.Seek(cmd.Position)
	case CommandSetLoop:
		b.SetLoop(cmd.Flag)
	case CommandSetMute:
		b.SetMute(cmd.Flag)
	case CommandSetSpeed:
		b.SetSpeed(cmd.Speed)
	case CommandSetAspect:
		b.SetAspect(cmd.Aspect)
	default:
		return fmt.Errorf("unknown player command %q", cmd.Type)
	}
	return nil
}
