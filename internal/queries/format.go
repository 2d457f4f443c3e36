package queries

const timeRangeFormat = `RESPONSE FORMAT:
You must respond with a JSON object containing:
{
    "time_range": {
        "start_time": "YYYY-MM-DD HH:MM",
        "end_time": "YYYY-MM-DD HH:MM",
        "description": "Brief description of the time range"
    },
    "reasoning": "Explain why you chose this time range",
    "confidence": 0.95,
    "query_type": "immediate|planned|scheduled|recurring|vague"
}`

const activityFormat = `Provide helpful, location-aware, and time-appropriate activity recommendations.`

const musicFormat = `Always be helpful, enthusiastic about music, and provide specific, actionable advice when possible.`

const locationFormat = `RESPONSE FORMAT:
Provide your recommendation as natural, conversational text. Include:
1. Primary recommendation with specific reasoning
2. Logistics (walking time, directions, timing)
3. Alternative options if applicable
4. Pro tips for the best experience
5. What to expect (crowds, atmosphere, etc.)

Remember: the stage and lineup data above is the festival's current schedule. Use it to give the most helpful response possible.`

var formats = map[QueryType]string{
	TimeRangeExtraction:    timeRangeFormat,
	ActivityRecommendation: activityFormat,
	LocationAnalysis:       locationFormat,
	MusicDiscovery:         musicFormat,
	Conversation:           "",
}

// ReplyFormat returns the fixed reply contract appended to the
// instructions for t. Conversation and unknown types have none.
func ReplyFormat(t QueryType) string {
	return formats[t]
}
