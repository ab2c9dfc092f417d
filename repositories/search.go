package repositories

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/index"
	"github.com/google/uuid"

	"chat-hub/domain"
)

// SearchIndex maintains a bluge full-text index of message bodies, scoped
// by room. Writes are batched; Flush applies the pending batch. Only text
// and code messages are indexed.
type SearchIndex struct {
	mu        sync.Mutex
	writer    *bluge.Writer
	log       *slog.Logger
	batch     *index.Batch
	pending   int
	batchSize int
	pageSize  int
}

type SearchHit struct {
	MessageID uuid.UUID `json:"messageId"`
	RoomID    string    `json:"roomId"`
	Content   string    `json:"content"`
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger, batchSize, pageSize int) *SearchIndex {
	if batchSize <= 0 {
		batchSize = 50
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &SearchIndex{
		writer:    writer,
		log:       log,
		batch:     bluge.NewBatch(),
		batchSize: batchSize,
		pageSize:  pageSize,
	}
}

// Index upserts a message body. Called on send and on edit; an edit
// replaces the previous document under the same id.
func (s *SearchIndex) Index(message StoredMessage) error {
	if message.Kind != domain.MessageText && message.Kind != domain.MessageCode {
		return nil
	}
	doc := bluge.NewDocument(message.ID.String())
	doc.AddField(bluge.NewKeywordField("room", message.RoomID).StoreValue())
	doc.AddField(bluge.NewTextField("content", message.Content).StoreValue())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Update(doc.ID(), doc)
	s.pending++
	if s.pending >= s.batchSize {
		return s.flushLocked()
	}
	return nil
}

// Remove drops a message from the index (delete-for-everyone or room
// cascade).
func (s *SearchIndex) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Delete(bluge.Identifier(id.String()))
	s.pending++
	if s.pending >= s.batchSize {
		return s.flushLocked()
	}
	return nil
}

func (s *SearchIndex) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *SearchIndex) flushLocked() error {
	if s.pending == 0 {
		return nil
	}
	if err := s.writer.Batch(s.batch); err != nil {
		return err
	}
	s.batch.Reset()
	s.pending = 0
	return nil
}

// SearchPaginated runs a match query on message bodies restricted to one
// room. Returns one page of hits plus the total hit count. An empty query
// matches nothing rather than everything.
func (s *SearchIndex) SearchPaginated(ctx context.Context, query, roomID string, page int) ([]SearchHit, uint64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, 0, nil
	}
	if err := s.Flush(); err != nil {
		return nil, 0, err
	}
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("content")).
		AddMust(bluge.NewTermQuery(roomID).SetField("room"))
	if page < 0 {
		page = 0
	}
	request := bluge.NewTopNSearch(s.pageSize, q).
		SetFrom(page * s.pageSize).
		WithStandardAggregations()

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []SearchHit
	for match, err := iterator.Next(); match != nil; match, err = iterator.Next() {
		if err != nil {
			return nil, 0, err
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.MessageID = id
				}
			case "room":
				hit.RoomID = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, 0, err
		}
		hits = append(hits, hit)
	}
	return hits, iterator.Aggregations().Count(), nil
}
