package api

import "time"

// formatTime12 renders a 24-hour "15:04" value in 12-hour clock form,
// e.g. "09:00 AM".
func formatTime12(value string) (string, bool) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return "", false
	}
	return t.Format("03:04 PM"), true
}

// displayTimeRange derives the display string for a start/end pair. It only
// succeeds when both values parse.
func displayTimeRange(start, end string) (string, bool) {
	s, okStart := formatTime12(start)
	e, okEnd := formatTime12(end)
	if !okStart || !okEnd {
		return "", false
	}
	return s + " - " + e, true
}

// resolveProgramTimes normalizes the three time inputs of the program form.
// Values that fail to parse are silently discarded. When both pickers are
// set, the derived range overrides any manually entered free-text time; a
// lone start time fills an empty free-text value.
func resolveProgramTimes(freeText, start, end string) (display, startTime, endTime string) {
	if _, ok := formatTime12(start); ok {
		startTime = start
	}
	if _, ok := formatTime12(end); ok {
		endTime = end
	}

	display = freeText
	if startTime != "" && endTime != "" {
		display, _ = displayTimeRange(startTime, endTime)
	} else if display == "" && startTime != "" {
		display, _ = formatTime12(startTime)
	}
	return display, startTime, endTime
}
