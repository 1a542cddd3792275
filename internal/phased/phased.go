// Package phased decides whether a phased (staged) update is offered on this
// machine. The decision is reproducible for a given package, version and
// machine, and varies across machines so the rollout is spread over the fleet.
package phased

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// PercentageField is the control field carrying the rollout percentage
const PercentageField = "Phased-Update-Percentage"

// DefaultMachineIDFile holds the stable machine identifier
const DefaultMachineIDFile = "/var/lib/dbus/machine-id"

// Options holds the administrator overrides
type Options struct {
	AlwaysInclude bool
	NeverInclude  bool
}

// Decider decides whether phased updates are withheld
type Decider struct {
	machineID string
	opts      Options
}

// NewDecider creates a decider for the given machine identity
func NewDecider(machineID string, opts Options) *Decider {
	return &Decider{
		machineID: machineID,
		opts:      opts,
	}
}

// ReadMachineID reads the machine identity. A missing, unreadable or empty
// file is an ErrMachineID error; the identity is required for reproducible
// phasing decisions.
func ReadMachineID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &models.Error{
			Type: models.ErrMachineID,
			Err:  fmt.Errorf("failed to read machine id: %w", err),
		}
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", &models.Error{
			Type: models.ErrMachineID,
			Err:  fmt.Errorf("machine id file %s is empty", path),
		}
	}

	if _, err := uuid.Parse(id); err != nil {
		logrus.Warnf("Machine id in %s is not a 128-bit hex id, using it verbatim", path)
	}

	return id, nil
}

// ShouldWithhold reports whether the candidate of pkg is a phased update
// that is not yet offered to this machine
func (d *Decider) ShouldWithhold(pkg *models.Package) bool {
	// allow the admin to override this
	if d.opts.AlwaysInclude {
		return false
	}

	value, ok := pkg.Candidate.Field(PercentageField)
	if !ok {
		return false
	}

	if d.opts.NeverInclude {
		logrus.Infof("Holding back phased update of %s per configuration", pkg.Name)
		return true
	}

	percentage, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logrus.Warnf("Ignoring invalid %s %q for %s", PercentageField, value, pkg.Name)
		return false
	}

	draw := Draw(pkg.Name, pkg.Candidate.Version, d.machineID)
	if draw > percentage {
		logrus.Debugf("Holding back phased update of %s: %d > %d%%", pkg.Name, draw, percentage)
		return true
	}
	return false
}

// Draw returns the reproducible value in [0, 100] that is compared against
// the rollout percentage. A fresh generator is seeded for every call.
func Draw(name, version, machineID string) int {
	h := fnv.New64a()
	h.Write([]byte(name + "-" + version + "-" + machineID))
	r := rand.New(rand.NewSource(int64(h.Sum64())))
	return r.Intn(101)
}
