package puzzles

import (
	"context"
	"fmt"

	"github.com/vytor/puzzlequest/internal/clock"
	"github.com/vytor/puzzlequest/internal/logger"
	"github.com/vytor/puzzlequest/internal/models"
)

// practiceSlots spreads practice requests over more slots than there are
// sets so consecutive requests rarely repeat.
const practiceSlots = 10

type template struct {
	typ         models.PuzzleType
	question    string
	options     []string
	answer      int
	explanation string
}

var staticSets = [][]template{
	{
		{models.TypeLogic, "If all roses are flowers and some flowers fade quickly, which statement must be true?",
			[]string{"All roses fade quickly", "Some roses might fade quickly", "No roses fade quickly", "All flowers are roses"}, 1,
			"Some flowers fade quickly and all roses are flowers, so some roses might be among them."},
		{models.TypeMath, "What is the next number in this sequence: 2, 6, 18, 54, ?",
			[]string{"108", "162", "216", "324"}, 1,
			"Each number is multiplied by 3: 54×3 = 162."},
		{models.TypeWord, "Rearrange these letters to form a word: TNEPAL",
			[]string{"PLANET", "PANTIE", "APLENT", "TALENT"}, 0,
			"TNEPAL rearranged spells PLANET."},
	},
	{
		{models.TypeLogic, "A clock shows 3:15. What is the angle between the hour and minute hands?",
			[]string{"7.5 degrees", "15 degrees", "22.5 degrees", "30 degrees"}, 0,
			"The minute hand is at 90° and the hour hand at 97.5°, a difference of 7.5°."},
		{models.TypeMath, "If you buy 3 apples for $2 and 2 oranges for $3, what's the cost of 1 apple and 1 orange?",
			[]string{"$1.50", "$2.17", "$2.50", "$3.00"}, 1,
			"One apple is $0.67 and one orange is $1.50, $2.17 together."},
		{models.TypePattern, "What comes next in the pattern: O, T, T, F, F, S, S, ?",
			[]string{"E", "N", "T", "O"}, 0,
			"They are the first letters of One, Two, Three, Four, Five, Six, Seven, Eight."},
	},
	{
		{models.TypeLogic, "You have two coins that add up to 30 cents. One is not a nickel. What are the two coins?",
			[]string{"Two dimes and a nickel", "A quarter and a nickel", "Three dimes", "A quarter and a penny"}, 1,
			"A quarter and a nickel. The quarter is the one that is not a nickel."},
		{models.TypeMath, "What's 15% of 80?",
			[]string{"10", "12", "15", "20"}, 1,
			"0.15 × 80 = 12."},
		{models.TypeWord, "Which word is the odd one out?",
			[]string{"LISTEN", "SILENT", "ENLIST", "TRIANGLE"}, 3,
			"LISTEN, SILENT and ENLIST are anagrams of each other. TRIANGLE is not."},
	},
	{
		{models.TypeLogic, "A man lives on the 20th floor. Every day he takes the elevator down to the ground floor. When he comes home, he takes the elevator to the 10th floor and walks the rest of the way, except on rainy days. Why?",
			[]string{"He's afraid of heights", "He's short and can't reach button 20", "He likes exercise", "The elevator is broken"}, 1,
			"He can't reach the button for the 20th floor unless he has an umbrella."},
		{models.TypeMath, "If 5 cats catch 5 mice in 5 minutes, how many cats are needed to catch 100 mice in 100 minutes?",
			[]string{"5 cats", "20 cats", "100 cats", "25 cats"}, 0,
			"Each cat catches one mouse every 5 minutes, so 20 mice in 100 minutes. 5 cats catch 100."},
		{models.TypePattern, "Complete the pattern: 1, 4, 9, 16, 25, ?",
			[]string{"30", "36", "35", "49"}, 1,
			"These are perfect squares. 6² = 36."},
	},
	{
		{models.TypeWord, "What 7-letter word becomes longer when the third letter is removed?",
			[]string{"JOURNEY", "LOUNGER", "NUMBERS", "FRIENDS"}, 1,
			"LOUNGER becomes LONGER without its third letter."},
		{models.TypeMath, "A store has a 25% off sale. If an item costs $60 after the discount, what was the original price?",
			[]string{"$75", "$80", "$85", "$90"}, 1,
			"$60 is 75% of the original price, so $60 ÷ 0.75 = $80."},
		{models.TypeLogic, "In a race, you passed the person in 2nd place. What place are you in now?",
			[]string{"1st place", "2nd place", "3rd place", "4th place"}, 1,
			"You took their place, so you are 2nd."},
	},
	{
		{models.TypePattern, "What comes next: A, E, I, M, Q, ?",
			[]string{"S", "T", "U", "V"}, 2,
			"Each letter moves forward by 4 positions: Q + 4 = U."},
		{models.TypeMath, "A pizza is cut into 8 equal slices. If you eat 3 slices, what fraction of the pizza remains?",
			[]string{"3/8", "5/8", "1/2", "2/3"}, 1,
			"8 - 3 = 5 slices remain, 5/8 of the pizza."},
		{models.TypeWord, "Unscramble: DWRARE. What word is this?",
			[]string{"WARDEN", "WARMED", "DRAWER", "TOWARD"}, 2,
			"DWRARE unscrambled spells DRAWER."},
	},
}

// StaticSource serves the built-in puzzle table. Daily sets rotate by day
// of year so every request on the same day gets the same set; practice
// sets rotate by the current millisecond.
type StaticSource struct {
	clock clock.Clock
}

func NewStaticSource(c clock.Clock) *StaticSource {
	return &StaticSource{clock: c}
}

func (s *StaticSource) Fetch(ctx context.Context, req Request) ([]models.Puzzle, error) {
	req = normalize(req)
	now := s.clock.Now()

	var slot int
	if req.Mode == models.ModePractice {
		slot = int(now.UnixMilli() % practiceSlots)
	} else {
		slot = now.YearDay() % len(staticSets)
	}
	set := slot % len(staticSets)

	logger.FromContext(ctx).WithPrefix("puzzles").Debug("serving static set %d: mode=%s, difficulty=%s", set+1, req.Mode, req.Difficulty)
	return buildSet(set, req, clock.DayKey(now), slot), nil
}

func buildSet(set int, req Request, day string, slot int) []models.Puzzle {
	out := make([]models.Puzzle, 0, len(staticSets[set]))
	for i, t := range staticSets[set] {
		out = append(out, models.Puzzle{
			ID:            fmt.Sprintf("static-%d-%d-%s-%s-%s-%d", set+1, i+1, req.Mode, day, req.UserID, slot),
			Question:      t.question,
			Options:       append([]string(nil), t.options...),
			CorrectAnswer: t.answer,
			Explanation:   t.explanation,
			Type:          t.typ,
			Difficulty:    req.Difficulty,
			Points:        PointsFor(req.Difficulty),
		})
	}
	return out
}
