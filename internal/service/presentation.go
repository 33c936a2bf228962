package service

import (
	"math/rand"

	"github.com/lshigami/Petrels/internal/model"
)

// presentQuestions builds the question order shown to the student for one
// attempt. Shuffling affects presentation only: the returned slice holds
// copies, and grading always runs against the canonical question bank keyed
// by question ID. Seeding with the attempt ID keeps the order stable when
// the same attempt is re-fetched.
func presentQuestions(quiz *model.Quiz, questions []model.Question, seed int64) []model.Question {
	presented := make([]model.Question, len(questions))
	copy(presented, questions)

	rng := rand.New(rand.NewSource(seed))

	if quiz.ShuffleQuestions {
		rng.Shuffle(len(presented), func(i, j int) {
			presented[i], presented[j] = presented[j], presented[i]
		})
	}

	if quiz.ShuffleOptions {
		for i := range presented {
			if len(presented[i].Options) == 0 {
				continue
			}
			opts := make(model.StringArray, len(presented[i].Options))
			copy(opts, presented[i].Options)
			rng.Shuffle(len(opts), func(a, b int) {
				opts[a], opts[b] = opts[b], opts[a]
			})
			presented[i].Options = opts
		}
	}

	return presented
}
