package health

import (
	"runtime"
	"strings"
	"time"
)

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// AliveCheck always reports healthy; answering at all proves liveness.
func AliveCheck() CheckFunc {
	return func() Check {
		return SimpleCheck("process")
	}
}

// BuildingCheck is unhealthy when the loaded building has no spaces.
func BuildingCheck(getBuilding func() (name string, spaces, walls int)) CheckFunc {
	return func() Check {
		name, spaces, walls := getBuilding()
		check := Check{
			Name: "building",
			Details: map[string]any{
				"building": name,
				"spaces":   spaces,
				"walls":    walls,
			},
		}

		if spaces == 0 {
			check.Status = StatusUnhealthy
			check.Message = "No spaces loaded"
		} else {
			check.Status = StatusHealthy
			check.Message = "Building loaded"
		}

		return check
	}
}

// HabitabilityCheck is degraded while any space exceeds its threshold.
// Uninhabitable rooms are a design problem, not an outage, so it never
// reports unhealthy.
func HabitabilityCheck(getFailing func() (failing []string, total int)) CheckFunc {
	return func() Check {
		failing, total := getFailing()
		check := Check{
			Name: "habitability",
			Details: map[string]any{
				"total":     total,
				"habitable": total - len(failing),
			},
		}

		if len(failing) > 0 {
			check.Status = StatusDegraded
			check.Message = "Uninhabitable: " + strings.Join(failing, ", ")
			check.Details["failing"] = failing
		} else {
			check.Status = StatusHealthy
			check.Message = "All spaces habitable"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys == 0 {
			check.Status = StatusHealthy
			check.Message = "Memory usage unknown"
			return check
		}

		if float64(alloc)/float64(sys)*100 > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}

// RuntimeMemory reads heap and system bytes from the Go runtime.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
