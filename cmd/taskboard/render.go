package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/history"
	"github.com/yukikurage/taskboard/internal/lifecycle"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/script"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

type renderer struct {
	out    io.Writer
	format string
}

func newRenderer(out io.Writer, format string) (*renderer, error) {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return &renderer{out: out, format: format}, nil
	case "":
		return &renderer{out: out, format: formatTable}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, yaml or json)", format)
}

// encode writes v as YAML or JSON. Table output has no generic form and
// falls back to YAML.
func (r *renderer) encode(v any) error {
	if r.format == formatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *renderer) newTable(title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.SetStyle(table.StyleLight)
	if title != "" {
		tw.SetTitle(title)
	}
	return tw
}

func (r *renderer) report(rep *script.Report) error {
	if r.format != formatTable {
		return r.encode(rep)
	}

	tw := r.newTable("Steps")
	tw.AppendHeader(table.Row{"#", "Op", "Applied", "Code", "Error"})
	for _, s := range rep.Steps {
		tw.AppendRow(table.Row{s.Index, s.Op, s.Applied, s.Code, s.Error})
	}
	tw.AppendFooter(table.Row{"", "", "", "failed", rep.Failed})
	tw.Render()

	return r.board(rep.Board)
}

func (r *renderer) board(b dto.BoardDTO) error {
	if r.format != formatTable {
		return r.encode(b)
	}

	tw := r.newTable("Tasks")
	tw.AppendHeader(table.Row{"ID", "Title", "Kind", "Category", "Status", "Users"})
	for _, t := range b.Tasks {
		tw.AppendRow(table.Row{t.ID, t.Title, t.Kind, t.Category, t.Label, len(t.UserIDs)})
	}
	tw.Render()

	tw = r.newTable("Users")
	tw.AppendHeader(table.Row{"ID", "Name", "Email", "Role", "Active", "Tasks"})
	for _, u := range b.Users {
		tw.AppendRow(table.Row{u.ID, u.Name, u.Email, u.Role, u.Active, len(u.TaskIDs)})
	}
	tw.Render()

	tw = r.newTable("Assignments")
	tw.AppendRows([]table.Row{
		{"Tasks with users", b.Stats.TotalTasks},
		{"Users with tasks", b.Stats.TotalUsers},
		{"Assignments", b.Stats.TotalAssignments},
		{"Avg users per task", strconv.FormatFloat(b.Stats.AvgUsersPerTask, 'f', 2, 64)},
		{"Avg tasks per user", strconv.FormatFloat(b.Stats.AvgTasksPerUser, 'f', 2, 64)},
		{"Unassigned tasks", len(b.TasksWithoutUsers)},
		{"Idle users", len(b.UsersWithoutTasks)},
	})
	tw.Render()
	return nil
}

func (r *renderer) events(events []history.Event) error {
	if r.format != formatTable {
		return r.encode(events)
	}

	tw := r.newTable("History")
	tw.AppendHeader(table.Row{"Time", "Type", "Message"})
	for _, e := range events {
		tw.AppendRow(table.Row{e.TS.Format("15:04:05.000"), e.Type, e.Message})
	}
	tw.Render()
	return nil
}

func (r *renderer) transitions(kinds []models.TaskKind) error {
	if r.format != formatTable {
		matrix := make(map[models.TaskKind]map[models.TaskStatus][]models.TaskStatus, len(kinds))
		for _, kind := range kinds {
			matrix[kind] = lifecycle.AllowedFrom(kind)
		}
		return r.encode(matrix)
	}

	for _, kind := range kinds {
		tw := r.newTable(string(kind))
		header := table.Row{"from \\ to"}
		for _, to := range models.TaskStatuses {
			header = append(header, to)
		}
		tw.AppendHeader(header)
		for _, from := range models.TaskStatuses {
			row := table.Row{from}
			for _, to := range models.TaskStatuses {
				mark := "-"
				if lifecycle.IsTransitionLegal(kind, from, to) {
					mark = "yes"
				}
				row = append(row, mark)
			}
			tw.AppendRow(row)
		}
		tw.Render()
	}
	return nil
}

func (r *renderer) version(info versionInfo) error {
	if r.format != formatTable {
		return r.encode(info)
	}

	tw := r.newTable("")
	tw.AppendRows([]table.Row{
		{"Name", info.Name},
		{"Version", info.Version},
		{"Environment", info.Environment},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	})
	tw.Render()
	return nil
}
