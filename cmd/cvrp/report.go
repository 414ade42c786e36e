package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/katalvlaran/cvrp/opt"
	"github.com/katalvlaran/cvrp/solution"
)

// sysInfo is a best-effort snapshot of the machine the run executed on.
type sysInfo struct {
	Platform string `json:"platform"`
	CPU      string `json:"cpu"`
	RAM      string `json:"ram"`
}

// runReport is the machine-readable summary emitted next to the solution
// files.
type runReport struct {
	RunID          string         `json:"run_id"`
	Instance       string         `json:"instance"`
	Seed           int            `json:"seed"`
	Cost           float64        `json:"cost"`
	Routes         int            `json:"routes"`
	ElapsedSeconds int            `json:"elapsed_seconds"`
	Iterations     int            `json:"iterations"`
	System         sysInfo        `json:"system"`
	Parameters     opt.Parameters `json:"parameters"`
}

// collectSysInfo fills what gopsutil can provide; failures leave fields
// empty rather than aborting the run.
func collectSysInfo() sysInfo {
	var info sysInfo

	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}

	return info
}

func writeRunReport(path string, params opt.Parameters, best *solution.Solution, elapsedSeconds int) error {
	report := runReport{
		RunID:          uuid.NewString(),
		Instance:       params.InstancePath,
		Seed:           params.Seed,
		Cost:           best.Cost(),
		Routes:         best.NumRoutes(),
		ElapsedSeconds: elapsedSeconds,
		Iterations:     params.CoreOptIterations,
		System:         collectSysInfo(),
		Parameters:     params,
	}

	content, err := json.MarshalIndent(report, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot encode run report: %w", err)
	}

	return os.WriteFile(path, content, 0o644)
}
