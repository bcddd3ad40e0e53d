package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/preplab/ielts-api/internal/domain"
	"github.com/preplab/ielts-api/internal/generation"
	"github.com/preplab/ielts-api/internal/store"
)

// testLogger returns a logger that discards output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockInvoker is a scriptable generation.Invoker. Each call pops the next
// scripted response; when the script runs out the last entry repeats.
type mockInvoker struct {
	mu        sync.Mutex
	responses []invokeResponse
	calls     []generation.Request
}

type invokeResponse struct {
	result *generation.RawResult
	err    error
}

func (m *mockInvoker) Invoke(_ context.Context, req generation.Request) (*generation.RawResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	resp := m.responses[idx]
	return resp.result, resp.err
}

func (m *mockInvoker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func textResult(text string) invokeResponse {
	return invokeResponse{result: &generation.RawResult{Text: text}}
}

func errResult(err error) invokeResponse {
	return invokeResponse{err: err}
}

// mockWritingStore is an in-memory store.WritingStore.
type mockWritingStore struct {
	mu          sync.Mutex
	topics      map[uuid.UUID]*domain.WritingTopic
	submissions []*domain.WritingSubmission

	createSubmissionErr error
}

func newMockWritingStore() *mockWritingStore {
	return &mockWritingStore{topics: make(map[uuid.UUID]*domain.WritingTopic)}
}

func (m *mockWritingStore) CreateTopic(_ context.Context, topic *domain.WritingTopic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics[topic.ID] = topic
	return nil
}

func (m *mockWritingStore) GetTopic(_ context.Context, id uuid.UUID) (*domain.WritingTopic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topic, ok := m.topics[id]
	if !ok {
		return nil, store.ErrTopicNotFound
	}
	return topic, nil
}

func (m *mockWritingStore) ListTopics(_ context.Context) ([]*domain.WritingTopic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]*domain.WritingTopic, 0, len(m.topics))
	for _, topic := range m.topics {
		topics = append(topics, topic)
	}
	return topics, nil
}

func (m *mockWritingStore) CreateSubmission(_ context.Context, submission *domain.WritingSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createSubmissionErr != nil {
		return m.createSubmissionErr
	}
	m.submissions = append(m.submissions, submission)
	return nil
}

func (m *mockWritingStore) ListSubmissionsByUser(_ context.Context, userUID string) ([]*domain.WritingSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.WritingSubmission
	for _, s := range m.submissions {
		if s.UserUID == userUID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockWritingStore) WithTx(_ *sql.Tx) store.WritingStore { return m }

// mockExamStore is an in-memory store.ExamStore.
type mockExamStore struct {
	mu      sync.Mutex
	exams   map[uuid.UUID]*domain.Exam
	results []*domain.ReadingResult

	createErr error
}

func newMockExamStore() *mockExamStore {
	return &mockExamStore{exams: make(map[uuid.UUID]*domain.Exam)}
}

func (m *mockExamStore) Create(_ context.Context, exam *domain.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.exams[exam.ID] = exam
	return nil
}

func (m *mockExamStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exam, ok := m.exams[id]
	if !ok {
		return nil, store.ErrExamNotFound
	}
	return exam, nil
}

func (m *mockExamStore) List(_ context.Context) ([]*domain.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exams := make([]*domain.Exam, 0, len(m.exams))
	for _, exam := range m.exams {
		exams = append(exams, exam)
	}
	return exams, nil
}

func (m *mockExamStore) SaveResult(_ context.Context, result *domain.ReadingResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

func (m *mockExamStore) ListResultsByUser(_ context.Context, userUID string) ([]*domain.ReadingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReadingResult
	for _, r := range m.results {
		if r.UserUID == userUID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockExamStore) WithTx(_ *sql.Tx) store.ExamStore { return m }

// mockFlashcardStore is an in-memory store.FlashcardStore.
type mockFlashcardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]*domain.Flashcard

	createErr error
	updateErr error
}

func newMockFlashcardStore() *mockFlashcardStore {
	return &mockFlashcardStore{cards: make(map[uuid.UUID]*domain.Flashcard)}
}

func (m *mockFlashcardStore) Create(_ context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.cards[card.ID] = card
	return nil
}

func (m *mockFlashcardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrFlashcardNotFound
	}
	copied := *card
	return &copied, nil
}

func (m *mockFlashcardStore) ListByUser(_ context.Context, userUID string) ([]*domain.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Flashcard
	for _, card := range m.cards {
		if card.UserUID == userUID {
			copied := *card
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockFlashcardStore) Update(_ context.Context, card *domain.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.cards[card.ID]; !ok {
		return store.ErrFlashcardNotFound
	}
	copied := *card
	m.cards[card.ID] = &copied
	return nil
}

func (m *mockFlashcardStore) WithTx(_ *sql.Tx) store.FlashcardStore { return m }

// fixedTime returns a stable reference instant for scheduling assertions.
func fixedTime() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}
