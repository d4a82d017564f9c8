package deps

import "strings"

// CheckFFmpeg reports the ffmpeg binary the segment command will execute. It
// is optional because only segmentation needs it.
func CheckFFmpeg(configured string) Status {
	binary := strings.TrimSpace(configured)
	if binary == "" {
		binary = "ffmpeg"
	}
	return check(Requirement{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Used by segment to cut task recordings",
		Optional:    true,
	})
}
