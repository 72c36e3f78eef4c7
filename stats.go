package mindlab

import (
	"math"
	"time"
)

// Stats aggregates the outcomes of a run.
//
// Misses counts every trial without a qualifying response, including
// correctly withheld no-go trials. OmissionErrors counts only the misses on
// trials that required a response. FalseAlarms are commission errors.
//
// MeanRT averages reaction times over correct trials that carry a response,
// rounded to the millisecond. Accuracy is Correct/Trials as a rounded percent.
type Stats struct {
	Trials         int
	Correct        int
	Hits           int
	Misses         int
	FalseAlarms    int
	Errors         int
	OmissionErrors int
	MeanRT         time.Duration
	Accuracy       int
}

// Summarize computes Stats over outcomes.
func Summarize(outcomes []Outcome) Stats {
	var s Stats
	var total time.Duration
	var timed int
	for _, o := range outcomes {
		s.Trials++
		if o.Correct {
			s.Correct++
			if rt, ok := o.ReactionTime(); ok {
				total += rt
				timed++
			}
		}
		switch o.Category {
		case CategoryHit:
			s.Hits++
		case CategoryMiss:
			s.Misses++
			if o.Stimulus.Go() {
				s.OmissionErrors++
			}
		case CategoryFalseAlarm:
			s.FalseAlarms++
		case CategoryError:
			s.Errors++
		}
	}
	if timed > 0 {
		ms := float64(total) / float64(timed) / float64(time.Millisecond)
		s.MeanRT = time.Duration(math.Round(ms)) * time.Millisecond
	}
	if s.Trials > 0 {
		s.Accuracy = int(math.Round(float64(s.Correct) / float64(s.Trials) * 100))
	}
	return s
}

// Verdict is the textual classification of a run.
type Verdict struct {
	Label   string
	Message string // markdown
}

// Metric is one labelled value on the results screen.
type Metric struct {
	Label string
	Value string
}

// Report is everything the results screen shows for a finished run.
type Report struct {
	Stats   Stats
	Verdict Verdict
	Metrics []Metric
}
