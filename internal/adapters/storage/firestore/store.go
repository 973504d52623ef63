package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/amarastelive/amaraste-agent/internal/domain"
)

// Store archives finalized conversation turns in Firestore so the
// operator can read them back later. Layout:
//
//	conversations/{session_id}/messages/{message_id}
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore archive store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) conversationDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("conversations").Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.conversationDoc(sessionID).Collection("messages")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type messageDoc struct {
	SessionID        string    `firestore:"session_id"`
	Sender           string    `firestore:"sender"`
	Text             string    `firestore:"text"`
	YouTubeID        string    `firestore:"youtube_id"`
	ShowSignUpButton bool      `firestore:"show_signup_button"`
	CreatedAt        time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// ArchiveStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(ctx context.Context, msg *domain.Message) error {
	doc := messageDoc{
		SessionID:        string(msg.SessionID),
		Sender:           string(msg.Sender),
		Text:             msg.Text,
		YouTubeID:        msg.YouTubeID,
		ShowSignUpButton: msg.ShowSignUpButton,
		CreatedAt:        msg.CreatedAt,
	}

	_, err := s.messagesCol(msg.SessionID).Doc(string(msg.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *Store) GetMessagesBySession(ctx context.Context, sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	q := s.messagesCol(sessionID).OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			if status.Code(err) == codes.NotFound {
				return nil, domain.ErrSessionNotFound
			}
			return nil, fmt.Errorf("firestore GetMessagesBySession: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, &domain.Message{
			ID:               domain.MessageID(snap.Ref.ID),
			SessionID:        sessionID,
			Sender:           domain.Sender(doc.Sender),
			Text:             doc.Text,
			YouTubeID:        doc.YouTubeID,
			ShowSignUpButton: doc.ShowSignUpButton,
			CreatedAt:        doc.CreatedAt,
		})
	}
	return out, nil
}
