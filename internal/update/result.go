package update

import "github.com/ralt/updatelist/internal/grouping"

// Result is the classified update list
type Result struct {
	SecurityGroups []*grouping.UpdateGroup
	UpdateGroups   []*grouping.UpdateGroup

	// NumUpdates counts every package routed to either stream
	NumUpdates int
	// HeldBack lists upgradable packages not selected for upgrade
	HeldBack []string
	// DistUpgradeWouldDelete is the number of packages the upgrade removes
	DistUpgradeWouldDelete int
}

// Report is the serializable form of a Result
type Report struct {
	NumUpdates             int           `json:"num_updates" yaml:"num_updates"`
	DistUpgradeWouldDelete int           `json:"dist_upgrade_would_delete" yaml:"dist_upgrade_would_delete"`
	SecurityGroups         []GroupReport `json:"security_groups" yaml:"security_groups"`
	UpdateGroups           []GroupReport `json:"update_groups" yaml:"update_groups"`
	HeldBack               []string      `json:"held_back" yaml:"held_back"`
}

// GroupReport describes one group
type GroupReport struct {
	Name         string       `json:"name" yaml:"name"`
	Kind         string       `json:"kind" yaml:"kind"`
	Icon         string       `json:"icon" yaml:"icon"`
	Core         string       `json:"core,omitempty" yaml:"core,omitempty"`
	Size         int64        `json:"size" yaml:"size"`
	Selected     bool         `json:"selected" yaml:"selected"`
	Inconsistent bool         `json:"inconsistent,omitempty" yaml:"inconsistent,omitempty"`
	Items        []ItemReport `json:"items" yaml:"items"`
}

// ItemReport describes one package of a group
type ItemReport struct {
	Name             string `json:"name" yaml:"name"`
	Package          string `json:"package" yaml:"package"`
	InstalledVersion string `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	CandidateVersion string `json:"candidate_version" yaml:"candidate_version"`
	Size             int64  `json:"size" yaml:"size"`
}

// Report converts the result for output
func (r *Result) Report() Report {
	heldBack := r.HeldBack
	if heldBack == nil {
		heldBack = []string{}
	}
	return Report{
		NumUpdates:             r.NumUpdates,
		DistUpgradeWouldDelete: r.DistUpgradeWouldDelete,
		SecurityGroups:         groupReports(r.SecurityGroups),
		UpdateGroups:           groupReports(r.UpdateGroups),
		HeldBack:               heldBack,
	}
}

func groupReports(groups []*grouping.UpdateGroup) []GroupReport {
	reports := make([]GroupReport, 0, len(groups))
	for _, g := range groups {
		gr := GroupReport{
			Name:         g.Name,
			Kind:         g.Kind.String(),
			Icon:         g.Icon,
			Size:         g.TotalSize(),
			Selected:     g.PackagesAreSelected(),
			Inconsistent: g.SelectionIsInconsistent(),
		}
		if g.Core != nil {
			gr.Core = g.Core.Package.Name
		}

		for _, item := range g.Items() {
			ir := ItemReport{
				Name:    item.Name,
				Package: item.Package.Name,
			}
			if item.Package.Installed != nil {
				ir.InstalledVersion = item.Package.Installed.Version
			}
			if item.Package.Candidate != nil {
				ir.CandidateVersion = item.Package.Candidate.Version
				ir.Size = item.Package.Candidate.Size
			}
			gr.Items = append(gr.Items, ir)
		}
		reports = append(reports, gr)
	}
	return reports
}
