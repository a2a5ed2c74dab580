package channel

import (
	"context"
	"fmt"

	"code-review-pipeline/internal/model"
)

type gitLab struct {
	notes NoteClient
}

func (*gitLab) sealed()                 {}
func (*gitLab) Type() model.ChannelType { return model.ChannelGitLab }

func (a *gitLab) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.ProjectID == 0 || msg.ChangeRef == 0 {
		return Receipt{}, fmt.Errorf("%w: project id %d, merge request iid %d", model.ErrValidation, msg.ProjectID, msg.ChangeRef)
	}
	note, err := a.notes.CreateMergeRequestNote(ctx, msg.ProjectID, msg.ChangeRef, msg.Body)
	if err != nil {
		return Receipt{}, &model.ExternalCallError{Op: "gitlab.create_note", Err: err}
	}
	return Receipt{
		Message: "merge request comment posted",
		Details: map[string]any{"note_id": note.ID, "project_id": msg.ProjectID, "mr_iid": msg.ChangeRef},
	}, nil
}
