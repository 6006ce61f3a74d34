package artifact

// History names a team's full fetched history.
func History(teamID string) string { return teamID + "_all_matches.json" }

func AtHome(homeID string) string { return homeID + "_at_home.json" }
func AtAway(awayID string) string { return awayID + "_at_away.json" }

func Versus(homeID, awayID string) string {
	return homeID + "_vs_" + awayID + "_versus_matches.json"
}

func RecentHome(homeID string) string { return homeID + "_recent_home_match.json" }
func RecentAway(awayID string) string { return awayID + "_recent_away_match.json" }

func RecentVersus(homeID, awayID string) string {
	return homeID + "_vs_" + awayID + "_recent_versus_matches.json"
}

func HomeOdds(homeID string) string { return homeID + "_recent_home_match_odds.json" }
func AwayOdds(awayID string) string { return awayID + "_recent_away_match_odds.json" }

func VersusOdds(homeID, awayID string) string {
	return homeID + "_vs_" + awayID + "_recent_versus_matches_odds.json"
}

func HomeStatistics(homeID string) string { return homeID + "_recent_home_match_statics.json" }
func AwayStatistics(awayID string) string { return awayID + "_recent_away_match_statics.json" }

func VersusStatistics(homeID, awayID string) string {
	return homeID + "_vs_" + awayID + "_recent_versus_matches_statics.json"
}

// Names lists every artifact a run for homeID vs awayID can produce.
func Names(homeID, awayID string) []string {
	return []string{
		VersusOdds(homeID, awayID),
		VersusStatistics(homeID, awayID),
		RecentVersus(homeID, awayID),
		Versus(homeID, awayID),
		History(awayID),
		History(homeID),
		AtHome(homeID),
		HomeOdds(homeID),
		HomeStatistics(homeID),
		RecentHome(homeID),
		AtAway(awayID),
		AwayOdds(awayID),
		AwayStatistics(awayID),
		RecentAway(awayID),
	}
}
