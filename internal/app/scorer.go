package app

import "mock-exam-service/internal/domain"

// Score grades an answer record against a round's key. It is pure: the same
// inputs always produce the same result.
//
// A subject passes when correct/total >= its pass rate; the exam passes only
// when the overall ratio meets the total pass rate AND every subject passes.
func Score(rules domain.ExamRules, key []int, answers domain.AnswerRecord) domain.Result {
	total := rules.TotalQuestions
	res := domain.Result{
		Total: total,
		Marks: make([]domain.MarkStatus, total),
	}

	for q := 1; q <= total; q++ {
		selected, answered := answers[q]
		switch {
		case !answered || selected == 0:
			res.Marks[q-1] = domain.MarkUnanswered
		case q <= len(key) && selected == key[q-1]:
			res.Marks[q-1] = domain.MarkCorrect
			res.Correct++
			res.Answered++
		default:
			res.Marks[q-1] = domain.MarkWrong
			res.Answered++
		}
	}
	res.Unanswered = total - res.Answered

	allSubjects := true
	res.Subjects = make([]domain.SubjectScore, 0, len(rules.Subjects))
	for _, subject := range rules.Subjects {
		sc := domain.SubjectScore{
			Name:     subject.Name,
			Total:    subject.Total(),
			PassRate: subject.PassRate,
		}
		for q := subject.Start; q <= subject.End && q <= total; q++ {
			if res.Marks[q-1] == domain.MarkCorrect {
				sc.Correct++
			}
		}
		sc.Passed = meetsRate(sc.Correct, sc.Total, subject.PassRate)
		if !sc.Passed {
			allSubjects = false
		}
		res.Subjects = append(res.Subjects, sc)
	}

	res.OverallPassed = meetsRate(res.Correct, total, rules.TotalPassRate)
	res.Passed = res.OverallPassed && allSubjects
	return res
}

func meetsRate(correct, total int, rate float64) bool {
	if total <= 0 {
		return false
	}
	return float64(correct)/float64(total) >= rate
}
