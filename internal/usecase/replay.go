package usecase

import (
	"math/rand/v2"
	"time"

	"search-enrichment-service/internal/domain/entity"
	"search-enrichment-service/pkg/utils"
)

// Departure offsets drawn when rebasing a replayed search, in days from now
const (
	minRebaseDays = 3
	maxRebaseDays = 100
)

// RebaseSearch moves a replayed search onto the current date: it is searched now,
// departs 3 to 99 days later and keeps its stay length. Flight dates move by the
// same offset as the departure date. Unparsable dates are left as they are.
func RebaseSearch(search *entity.Search, now time.Time, rng *rand.Rand) {
	search.SearchDate = now.Format(utils.DATE_LAYOUT)
	search.SearchTime = now.Format(utils.TIME_LAYOUT)

	oldDep, err := time.Parse(utils.DATE_LAYOUT, search.RequestDepDate)
	if err != nil {
		return
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	newDep := today.AddDate(0, 0, minRebaseDays+rng.IntN(maxRebaseDays-minRebaseDays))
	shift := newDep.Sub(oldDep)
	search.RequestDepDate = newDep.Format(utils.DATE_LAYOUT)

	if search.RequestReturnDate != "" {
		if oldRet, err := time.Parse(utils.DATE_LAYOUT, search.RequestReturnDate); err == nil {
			search.RequestReturnDate = oldRet.Add(shift).Format(utils.DATE_LAYOUT)
		}
	}

	for _, reco := range search.Recos {
		for i := range reco.Flights {
			reco.Flights[i].DepDate = shiftDate(reco.Flights[i].DepDate, shift)
			reco.Flights[i].ArrDate = shiftDate(reco.Flights[i].ArrDate, shift)
		}
	}
}

func shiftDate(date string, shift time.Duration) string {
	d, err := time.Parse(utils.DATE_LAYOUT, date)
	if err != nil {
		return date
	}
	return d.Add(shift).Format(utils.DATE_LAYOUT)
}
