package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/dto"
)

// Property: a created epic's ICE score is the rounded mean of its inputs and
// stays within the 1..10 range
func TestProperty_CreateEpicICEScore(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ICE score is the mean of impact, confidence and ease", prop.ForAll(
		func(impact, confidence, ease int) bool {
			repos := newMockRepos()
			var created *domain.Epic
			repos.epics.CreateFunc = func(ctx context.Context, epic *domain.Epic) error {
				created = epic
				return nil
			}
			svc := NewEpicService(repos.repositories(), &MockTransactor{Repos: repos.repositories()}, testUndoWindow, fixedClock, nil, zap.NewNop())

			resp, err := svc.CreateEpic(withUser(uuid.New()), uuid.New(), &dto.CreateEpicRequest{
				Name: "Epic", Impact: &impact, Confidence: &confidence, Ease: &ease,
			})
			if err != nil || created == nil {
				return false
			}
			want := domain.ComputeICEScore(impact, confidence, ease)
			return resp.ICEScore == want && created.ICEScore == want && want >= 1 && want <= 10
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
	))

	properties.Property("out of range components are rejected before any write", prop.ForAll(
		func(impact int) bool {
			repos := newMockRepos()
			writes := 0
			repos.epics.CreateFunc = func(ctx context.Context, epic *domain.Epic) error {
				writes++
				return nil
			}
			svc := NewEpicService(repos.repositories(), &MockTransactor{Repos: repos.repositories()}, testUndoWindow, fixedClock, nil, zap.NewNop())

			_, err := svc.CreateEpic(withUser(uuid.New()), uuid.New(), &dto.CreateEpicRequest{Impact: &impact})
			return err != nil && writes == 0
		},
		gen.OneGenOf(gen.IntRange(-20, 0), gen.IntRange(11, 40)),
	))

	properties.TestingRun(t)
}
