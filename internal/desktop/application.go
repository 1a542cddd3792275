package desktop

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ralt/updatelist/internal/models"
	"gopkg.in/ini.v1"
)

const entrySection = "Desktop Entry"

// Application is a desktop entry describing an end-user application
type Application struct {
	// ID is the file name without the .desktop extension
	ID       string
	Filename string
	Name     string
	Icon     string

	NoDisplay  bool
	Hidden     bool
	OnlyShowIn []string
	NotShowIn  []string
}

// Load parses a .desktop file. Only entries of Type=Application load.
func Load(path string) (*Application, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		KeyValueDelimiters:  "=",
	}, path)
	if err != nil {
		return nil, &models.Error{
			Type:    models.ErrDesktopEntry,
			Package: path,
			Err:     err,
		}
	}

	sec, err := f.GetSection(entrySection)
	if err != nil {
		return nil, &models.Error{
			Type:    models.ErrDesktopEntry,
			Package: path,
			Err:     fmt.Errorf("missing [%s] group", entrySection),
		}
	}

	if t := sec.Key("Type").String(); t != "Application" {
		return nil, &models.Error{
			Type:    models.ErrDesktopEntry,
			Package: path,
			Err:     fmt.Errorf("unsupported entry type %q", t),
		}
	}

	name := sec.Key("Name").String()
	if name == "" {
		return nil, &models.Error{
			Type:    models.ErrDesktopEntry,
			Package: path,
			Err:     fmt.Errorf("missing Name key"),
		}
	}

	base := filepath.Base(path)
	return &Application{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		Filename:   path,
		Name:       name,
		Icon:       sec.Key("Icon").String(),
		NoDisplay:  sec.Key("NoDisplay").MustBool(false),
		Hidden:     sec.Key("Hidden").MustBool(false),
		OnlyShowIn: splitList(sec.Key("OnlyShowIn").String()),
		NotShowIn:  splitList(sec.Key("NotShowIn").String()),
	}, nil
}

// ShouldShow reports whether the application is shown in menus of the
// current desktop, given as a colon-separated list like XDG_CURRENT_DESKTOP
func (a *Application) ShouldShow(currentDesktop string) bool {
	if a.NoDisplay || a.Hidden {
		return false
	}

	for _, desktop := range strings.Split(currentDesktop, ":") {
		if desktop == "" {
			continue
		}
		if contains(a.OnlyShowIn, desktop) {
			return true
		}
		if contains(a.NotShowIn, desktop) {
			return false
		}
	}

	return len(a.OnlyShowIn) == 0
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
