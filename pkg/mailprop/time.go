package mailprop

import "time"

// filetimeEpoch is 1601-01-01 00:00:00 UTC, the origin of FILETIME.
var filetimeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// apptimeEpoch is 1899-12-30 00:00:00 UTC, the origin of APPTIME.
var apptimeEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// FileTime is a PtypTime value: a count of 100-nanosecond ticks since
// the FILETIME epoch.
type FileTime int64

// Time converts a FileTime to a time.Time.
func (f FileTime) Time() time.Time {
	ticks := int64(f)
	return time.Unix(filetimeEpoch.Unix()+ticks/10_000_000, (ticks%10_000_000)*100).UTC()
}

// NewFileTime converts a time.Time to a FileTime.
func NewFileTime(t time.Time) FileTime {
	secs := t.Unix() - filetimeEpoch.Unix()
	return FileTime(secs*10_000_000 + int64(t.Nanosecond())/100)
}

// AppTime is a PtypFloatingTime value: a count of fractional days since
// the APPTIME epoch.
type AppTime float64

// Time converts an AppTime to a time.Time.
func (a AppTime) Time() time.Time {
	days := float64(a)
	return apptimeEpoch.Add(time.Duration(days * float64(24*time.Hour)))
}

// NewAppTime converts a time.Time to an AppTime.
func NewAppTime(t time.Time) AppTime {
	d := t.Sub(apptimeEpoch)
	return AppTime(float64(d) / float64(24*time.Hour))
}
