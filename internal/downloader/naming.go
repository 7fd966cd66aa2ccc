package downloader

import (
	"errors"
	"fmt"
	"strings"

	"usagereports/internal/errs"
	"usagereports/internal/models"
	"usagereports/pkg/utils"
)

// Mode decides the local file name of an object and the progress lines printed around its transfer.
type Mode struct {
	Name    func(obj models.RemoteObject) (string, error)
	Started func(obj models.RemoteObject) string
	Done    func(obj models.RemoteObject, path string) string
}

// AllReports names files after the last path segment and is used when every report is fetched.
var AllReports = Mode{
	Name: BaseName,
	Started: func(obj models.RemoteObject) string {
		return "Found file " + obj.Name
	},
	Done: func(obj models.RemoteObject, path string) string {
		return "----> File " + obj.Name + " Downloaded\n"
	},
}

// DatedReports prefixes the last two path segments with the creation date.
var DatedReports = Mode{
	Name: DatedName,
	Started: func(obj models.RemoteObject) string {
		return fmt.Sprintf("Downloading the report from %s named %s ...", utils.FormatDate(obj.TimeCreated), obj.Name)
	},
	Done: func(obj models.RemoteObject, path string) string {
		return fmt.Sprintf("Finished downloading report '%s' here: '%s'\n", obj.Name, path)
	},
}

// BaseName returns the last '/' separated segment of the object name.
func BaseName(obj models.RemoteObject) (string, error) {
	return obj.Name[strings.LastIndex(obj.Name, "/")+1:], nil
}

// DatedName returns "<YYYY-MM-DD>-<second to last segment>-<last segment>".
// Names without any '/' have no second to last segment and are rejected.
func DatedName(obj models.RemoteObject) (string, error) {
	segments := strings.Split(obj.Name, "/")
	if len(segments) < 2 {
		return "", errs.Wrap(errs.CodeDownload, "derive file name",
			fmt.Errorf("%q: %w", obj.Name, errors.New("object name has fewer than two path segments")))
	}
	n := len(segments)
	return utils.FormatDate(obj.TimeCreated) + "-" + segments[n-2] + "-" + segments[n-1], nil
}
