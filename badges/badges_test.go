package badges

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBadgesNoCapsules(t *testing.T) {
	earned := CheckBadges(UserStats{})
	assert.Empty(t, earned)
}

func TestCheckBadgesThreeCapsulesInOneDay(t *testing.T) {
	stats := UserStats{
		TotalCapsules:       3,
		MaxCapsulesInOneDay: 3,
	}

	earned := CheckBadges(stats)
	assert.ElementsMatch(t, []string{FirstTimer, StarterPack, MemoryKeeper, DailyCreator}, earned)
}

func TestCheckBadgesLongWait(t *testing.T) {
	stats := UserStats{
		TotalCapsules:         1,
		ReleasedCapsules:      1,
		LongestFutureWaitDays: 4000,
		MaxCapsulesInOneDay:   1,
	}

	earned := CheckBadges(stats)
	assert.ElementsMatch(t, []string{FirstTimer, UnlockedFirst, PatientOne, YearWarrior, TimeTraveler}, earned)
	// 4000 hari belum mencapai threshold future_master (10950)
	assert.NotContains(t, earned, FutureMaster)
}

func TestCheckBadgesFutureMaster(t *testing.T) {
	stats := UserStats{
		TotalCapsules:         1,
		LongestFutureWaitDays: 10950,
	}

	earned := CheckBadges(stats)
	assert.Contains(t, earned, FutureMaster)
	assert.Contains(t, earned, TimeTraveler)
	assert.Contains(t, earned, YearWarrior)
	assert.Contains(t, earned, PatientOne)
}

func TestCheckBadgesDuplicateThresholdKept(t *testing.T) {
	// starter_pack dan memory_keeper sengaja berbagi threshold yang sama
	earned := CheckBadges(UserStats{TotalCapsules: 3})
	assert.Contains(t, earned, StarterPack)
	assert.Contains(t, earned, MemoryKeeper)
}

func TestCatalog(t *testing.T) {
	all := All()
	assert.Len(t, all, 9)

	badge, ok := Find(FirstTimer)
	assert.True(t, ok)
	assert.Equal(t, "First Timer", badge.Name)

	_, ok = Find("no_such_badge")
	assert.False(t, ok)
}
