package model

import (
	"errors"
	"fmt"
	"strings"
)

// CommandName identifies a batch operation applied through one PATCH call.
type CommandName string

const (
	CommandStar        CommandName = "star"
	CommandRead        CommandName = "read"
	CommandDelete      CommandName = "delete"
	CommandAddLabel    CommandName = "addLabel"
	CommandRemoveLabel CommandName = "removeLabel"

	// CommandCreate is not a PATCH command; it names POST requests in
	// the activity log.
	CommandCreate CommandName = "create"
)

// PatchRequest is the JSON body of PATCH /api/messages. Only the field
// belonging to Command is populated; pointers keep explicit false values
// on the wire.
type PatchRequest struct {
	MessageIDs []int       `json:"messageIds"`
	Command    CommandName `json:"command"`
	Star       *bool       `json:"star,omitempty"`
	Read       *bool       `json:"read,omitempty"`
	Label      *string     `json:"label,omitempty"`
}

// StarRequest builds the star command for a single message. The flag is
// passed through as given; callers send the message's current starred
// value.
func StarRequest(id int, star bool) PatchRequest {
	return PatchRequest{
		MessageIDs: []int{id},
		Command:    CommandStar,
		Star:       &star,
	}
}

// ReadRequest builds the read command.
func ReadRequest(ids []int, read bool) PatchRequest {
	return PatchRequest{MessageIDs: ids, Command: CommandRead, Read: &read}
}

// DeleteRequest builds the delete command.
func DeleteRequest(ids []int) PatchRequest {
	return PatchRequest{MessageIDs: ids, Command: CommandDelete}
}

// AddLabelRequest builds the addLabel command.
func AddLabelRequest(ids []int, label string) PatchRequest {
	return PatchRequest{MessageIDs: ids, Command: CommandAddLabel, Label: &label}
}

// RemoveLabelRequest builds the removeLabel command.
func RemoveLabelRequest(ids []int, label string) PatchRequest {
	return PatchRequest{MessageIDs: ids, Command: CommandRemoveLabel, Label: &label}
}

// Validate checks that the request carries the field its command needs.
func (r PatchRequest) Validate() error {
	switch r.Command {
	case CommandStar:
		if r.Star == nil {
			return errors.New("star command requires a star flag")
		}
	case CommandRead:
		if r.Read == nil {
			return errors.New("read command requires a read flag")
		}
	case CommandDelete:
	case CommandAddLabel, CommandRemoveLabel:
		if r.Label == nil || strings.TrimSpace(*r.Label) == "" {
			return fmt.Errorf("%s command requires a label", r.Command)
		}
	default:
		return fmt.Errorf("unknown command %q", r.Command)
	}
	return nil
}
