package badges

// Badge adalah definisi achievement statis dari katalog
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Requirement string `json:"requirement"`
}

const (
	FirstTimer    = "first_timer"
	StarterPack   = "starter_pack"
	MemoryKeeper  = "memory_keeper"
	UnlockedFirst = "unlocked_first"
	PatientOne    = "patient_one"
	YearWarrior   = "year_warrior"
	TimeTraveler  = "time_traveler"
	FutureMaster  = "future_master"
	DailyCreator  = "daily_creator"
)

// catalog dibangun sekali saat startup dan tidak pernah dimutasi
var catalog = []Badge{
	{ID: FirstTimer, Name: "First Timer", Description: "Created your first capsule", Icon: "🎯", Requirement: "Create 1 capsule"},
	{ID: StarterPack, Name: "Starter Pack", Description: "Created 3 capsules", Icon: "📦", Requirement: "Create 3 capsules"},
	{ID: MemoryKeeper, Name: "Memory Keeper", Description: "Created 3 capsules", Icon: "🏆", Requirement: "Create 3 capsules"},
	{ID: UnlockedFirst, Name: "Unlocked!", Description: "Unlocked your first capsule", Icon: "🔓", Requirement: "Unlock 1 capsule"},
	{ID: PatientOne, Name: "Patient Soul", Description: "Created a capsule for 30+ days in the future", Icon: "🧘", Requirement: "Set 30+ days unlock date"},
	{ID: YearWarrior, Name: "Year Warrior", Description: "Created a capsule for 1+ year in the future", Icon: "🗓️", Requirement: "Set 1+ year unlock date"},
	{ID: TimeTraveler, Name: "Time Traveler", Description: "Created a capsule for 10+ years in the future", Icon: "⏰", Requirement: "Set 10+ years unlock date"},
	{ID: FutureMaster, Name: "Future Master", Description: "Created a capsule for 30+ years in the future", Icon: "🚀", Requirement: "Set 30+ years unlock date"},
	{ID: DailyCreator, Name: "On Fire", Description: "Created 3 capsules in one day", Icon: "🔥", Requirement: "Create 3 in one day"},
}

var byID = func() map[string]Badge {
	m := make(map[string]Badge, len(catalog))
	for _, b := range catalog {
		m[b.ID] = b
	}
	return m
}()

// All mengembalikan seluruh katalog badge sesuai urutan definisi
func All() []Badge {
	out := make([]Badge, len(catalog))
	copy(out, catalog)
	return out
}

// Find mencari definisi badge berdasarkan id
func Find(id string) (Badge, bool) {
	b, ok := byID[id]
	return b, ok
}

// UserStats adalah snapshot agregat dari riwayat kapsul seorang user
type UserStats struct {
	TotalCapsules         int `json:"total_capsules"`
	ReleasedCapsules      int `json:"released_capsules"`
	LongestFutureWaitDays int `json:"longest_future_wait_days"`
	MaxCapsulesInOneDay   int `json:"max_capsules_in_one_day"`
}

// CheckBadges -> pure function, memetakan stats ke daftar badge id yang
// memenuhi syarat. Setiap threshold dievaluasi independen terhadap
// snapshot yang sama.
func CheckBadges(stats UserStats) []string {
	earned := make([]string, 0)

	if stats.TotalCapsules >= 1 {
		earned = append(earned, FirstTimer)
	}

	if stats.TotalCapsules >= 3 {
		earned = append(earned, StarterPack)
	}

	// Memory Keeper sengaja memakai threshold yang sama dengan Starter
	// Pack, keduanya dipertahankan untuk backward compatibility.
	if stats.TotalCapsules >= 3 {
		earned = append(earned, MemoryKeeper)
	}

	if stats.ReleasedCapsules >= 1 {
		earned = append(earned, UnlockedFirst)
	}

	if stats.LongestFutureWaitDays >= 30 {
		earned = append(earned, PatientOne)
	}

	if stats.LongestFutureWaitDays >= 365 {
		earned = append(earned, YearWarrior)
	}

	if stats.LongestFutureWaitDays >= 3650 {
		earned = append(earned, TimeTraveler)
	}

	if stats.LongestFutureWaitDays >= 10950 {
		earned = append(earned, FutureMaster)
	}

	if stats.MaxCapsulesInOneDay >= 3 {
		earned = append(earned, DailyCreator)
	}

	return earned
}
