package catalog

import (
	"github.com/vmunix/driveflix/internal/remote"
	"github.com/vmunix/driveflix/pkg/medianame"
)

// folderFiles is a folder listing split by kind. Order follows the
// listing, which is by name.
type folderFiles struct {
	videos    []remote.Entry
	subtitles []remote.Entry
	subNames  []string
}

func classifyFiles(entries []remote.Entry) folderFiles {
	var ff folderFiles
	for _, e := range entries {
		if e.IsFolder {
			continue
		}
		switch medianame.Classify(e.Name, e.MimeType) {
		case medianame.KindVideo:
			ff.videos = append(ff.videos, e)
		case medianame.KindSubtitle:
			ff.subtitles = append(ff.subtitles, e)
			ff.subNames = append(ff.subNames, e.Name)
		}
	}
	return ff
}

// subtitleFor returns the ID of the subtitle paired with video, if any.
func (ff folderFiles) subtitleFor(video remote.Entry) *string {
	i, ok := medianame.FindMatchingSubtitle(video.Name, ff.subNames)
	if !ok {
		return nil
	}
	id := ff.subtitles[i].ID
	return &id
}
