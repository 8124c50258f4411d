package queue

import (
	"context"
	"testing"

	"backend-sevapali/internal/models"
)

func TestPositionRanksWaitingTokens(t *testing.T) {
	s, _, _ := newTestScheduler() // StaticServiceTimes(10)

	admitted := admitTokens(t, s, 3)

	for i, token := range admitted {
		pos, err := s.Position(context.Background(), token.ID)
		if err != nil {
			t.Fatalf("Position %d: %v", i, err)
		}
		wantRank := i + 1
		if pos.Rank != wantRank {
			t.Errorf("token %d rank: got %d, want %d", i, pos.Rank, wantRank)
		}
		if pos.EstimatedWaitMinutes != wantRank*10 {
			t.Errorf("token %d wait: got %d, want %d", i, pos.EstimatedWaitMinutes, wantRank*10)
		}
	}
}

func TestPositionNonWaitingIsZero(t *testing.T) {
	s, _, _ := newTestScheduler()

	pending := bookTestToken(t, s, "citizen-1")
	pos, err := s.Position(context.Background(), pending.ID)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.Rank != 0 || pos.EstimatedWaitMinutes != 0 {
		t.Errorf("pending token: got rank %d wait %d, want 0/0", pos.Rank, pos.EstimatedWaitMinutes)
	}

	if _, err := s.CheckIn(context.Background(), pending.ID, testOfficial); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	serving, err := s.CallNext(context.Background(), testKey, testOfficial)
	if err != nil {
		t.Fatalf("CallNext: %v", err)
	}

	pos, err = s.Position(context.Background(), serving.ID)
	if err != nil {
		t.Fatalf("Position on serving: %v", err)
	}
	if pos.Rank != 0 || pos.EstimatedWaitMinutes != 0 {
		t.Errorf("serving token: got rank %d wait %d, want 0/0", pos.Rank, pos.EstimatedWaitMinutes)
	}
	if pos.Status != models.StatusServing {
		t.Errorf("status: got %s, want serving", pos.Status)
	}
}

func TestPositionTracksSkip(t *testing.T) {
	s, _, _ := newTestScheduler()

	admitTokens(t, s, 7)
	serving, err := s.CallNext(context.Background(), testKey, testOfficial)
	if err != nil {
		t.Fatalf("CallNext: %v", err)
	}
	skipped, err := s.Skip(context.Background(), serving.ID, testOfficial)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}

	pos, err := s.Position(context.Background(), skipped.ID)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.Rank != 6 {
		t.Errorf("rank after skip: got %d, want 6", pos.Rank)
	}
}

func TestStaticServiceTimesFallback(t *testing.T) {
	if got := StaticServiceTimes(0).AverageServiceMinutes(context.Background(), "o", "d"); got != DefaultAvgServiceMinutes {
		t.Errorf("zero config: got %d, want default %d", got, DefaultAvgServiceMinutes)
	}
	if got := StaticServiceTimes(25).AverageServiceMinutes(context.Background(), "o", "d"); got != 25 {
		t.Errorf("configured: got %d, want 25", got)
	}
}
