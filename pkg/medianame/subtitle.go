package medianame

// FindMatchingSubtitle returns the index of the subtitle in candidates whose
// extension-stripped name equals the video's exactly. Non-subtitle
// candidates are ignored. There is no fuzzy matching: "S01E01.mp4" pairs with
// "S01E01.vtt" but not with "S01E01-en.vtt".
func FindMatchingSubtitle(videoName string, candidates []string) (int, bool) {
	base := StripExtension(videoName)
	for i, c := range candidates {
		if !IsSubtitle(c) {
			continue
		}
		if StripExtension(c) == base {
			return i, true
		}
	}
	return -1, false
}
