package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves the ID identifying the machine, falling back to the
// hostname when the machine has no ID.
func MachineID() string {
	id, err := machineid.ID()
	if err == nil && id != "" {
		return id
	}
	glog.V(1).Infof("machine id unavailable: %v", err)
	host, _ := os.Hostname()
	return host
}
