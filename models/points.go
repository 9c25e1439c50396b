package models

// PointsPerLevel: level = floor(currentPoints / PointsPerLevel)
const PointsPerLevel = 100

// BaseCompletionPoints is awarded per task completion and deducted
// symmetrically on un-completion.
const BaseCompletionPoints = 10

// PointsState is the user's points balance and derived level.
// TotalPointsEarned is a lifetime-earned counter: it only ever grows and is
// unaffected by deductions.
type PointsState struct {
	CurrentPoints     int `json:"current_points"`
	TotalPointsEarned int `json:"total_points_earned"`
	Level             int `json:"level"`
}

func LevelForPoints(points int) int {
	if points < 0 {
		return 0
	}
	return points / PointsPerLevel
}
