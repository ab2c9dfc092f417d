package realtime

import (
	"chat-hub/domain"
	"chat-hub/repositories"
)

// PopulateMessage resolves a stored message into its client-facing form:
// sender ref and reply target filled in, reactions already carrying
// usernames. Shared by the broadcast pipeline and the REST history
// endpoint so both surfaces emit identical shapes.
func PopulateMessage(
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	stored repositories.StoredMessage,
) (domain.Message, error) {
	message := domain.Message{
		ID:                   stored.ID,
		RoomID:               stored.RoomID,
		Content:              stored.Content,
		Kind:                 stored.Kind,
		CodeLanguage:         stored.CodeLanguage,
		FileURL:              stored.FileURL,
		FileName:             stored.FileName,
		FileSize:             stored.FileSize,
		FileType:             stored.FileType,
		Reactions:            stored.Reactions,
		IsEdited:             stored.IsEdited,
		EditedAt:             stored.EditedAt,
		IsDeletedForEveryone: stored.IsDeletedForEveryone,
		ReadBy:               stored.ReadBy,
		CreatedAt:            stored.CreatedAt,
	}
	if message.Reactions == nil {
		message.Reactions = []domain.Reaction{}
	}
	if message.ReadBy == nil {
		message.ReadBy = []string{}
	}

	if stored.SenderID != "" {
		sender, err := users.GetUser(stored.SenderID)
		if err != nil {
			return domain.Message{}, err
		}
		ref := sender.Ref()
		message.Sender = &ref
	}

	if stored.ReplyToID != nil {
		target, err := messages.GetMessage(*stored.ReplyToID)
		if err == nil {
			ref := domain.ReplyRef{ID: target.ID, Content: target.Content}
			if target.SenderID != "" {
				if sender, err := users.GetUser(target.SenderID); err == nil {
					ref.Username = sender.Username
				}
			}
			message.ReplyTo = &ref
		}
		// A vanished reply target (room cascade) degrades to no reply
		// block rather than failing the lookup.
	}
	return message, nil
}
