package usage

import "time"

// PlanStarter is the only plan today; every user gets its monthly allowance.
const PlanStarter = "Starter"

func defaultUsage() Usage {
	return Usage{
		Plan:     PlanStarter,
		Limit:    10,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(30 * 24 * time.Hour),
	}
}
