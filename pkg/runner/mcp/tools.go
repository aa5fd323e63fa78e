package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/timeutil"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListSchedulesTool(srv, svc)
	registerAddScheduleTool(srv, svc)
	registerEditScheduleTool(srv, svc)
	registerDeleteScheduleTool(srv, svc)
	registerSearchSchedulesTool(srv, svc)
	registerListTodosTool(srv, svc)
	registerAddTodoTool(srv, svc)
	registerToggleTodoTool(srv, svc)
	registerKeepTodosTool(srv, svc)
}

func registerListSchedulesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_schedules",
		mcp.WithDescription("List schedules for one day or the whole calendar, in start order."),
		mcp.WithString("date",
			mcp.Description("Optional day in YYYY-MM-DD form."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := strings.TrimSpace(request.GetString("date", ""))
		list, err := svc.ListSchedules(date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"date":      date,
			"schedules": list,
			"count":     len(list),
		})
	})
}

func registerAddScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_schedule",
		mcp.WithDescription("Create a schedule at a local date and time."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What is happening."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day in YYYY-MM-DD form."),
		),
		mcp.WithString("time",
			mcp.Required(),
			mcp.Description("Start time in 24h HH:MM form."),
		),
		mcp.WithString("description",
			mcp.Description("Free text notes."),
		),
		mcp.WithString("remind",
			mcp.Description("Remind this long before the start, such as 15m, 1h30m or 90."),
		),
		mcp.WithString("color",
			mcp.Description("Display color as #rrggbb."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Title       string `json:"title"`
			Date        string `json:"date"`
			Time        string `json:"time"`
			Description string `json:"description"`
			Remind      string `json:"remind"`
			Color       string `json:"color"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		in := app.ScheduleInput{
			Title:       strings.TrimSpace(args.Title),
			Date:        args.Date,
			Time:        args.Time,
			Description: args.Description,
			Color:       args.Color,
		}
		if strings.TrimSpace(args.Remind) != "" {
			minutes, _, err := timeutil.ParseOffset(args.Remind)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			in.Reminder = schedule.Minutes(minutes)
		}

		sc, err := svc.AddSchedule(in)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sc)
	})
}

func registerEditScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"edit_schedule",
		mcp.WithDescription("Change fields of a schedule. Fields left out keep their value."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Schedule identifier to modify."),
		),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("date", mcp.Description("New day in YYYY-MM-DD form.")),
		mcp.WithString("time", mcp.Description("New start time in HH:MM form.")),
		mcp.WithString("description", mcp.Description("New notes.")),
		mcp.WithString("color", mcp.Description("New display color.")),
		mcp.WithString("remind", mcp.Description("New reminder offset such as 15m.")),
		mcp.WithBoolean("clear_reminder", mcp.Description("Remove the reminder.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var p schedule.Patch
		args := request.GetArguments()
		for key, dst := range map[string]**string{
			"title":       &p.Title,
			"date":        &p.Date,
			"time":        &p.Time,
			"description": &p.Description,
			"color":       &p.Color,
		} {
			if _, ok := args[key]; ok {
				v := request.GetString(key, "")
				*dst = &v
			}
		}
		if remind := request.GetString("remind", ""); remind != "" {
			minutes, _, err := timeutil.ParseOffset(remind)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			p.Reminder = &minutes
		}
		p.ClearReminder = request.GetBool("clear_reminder", false)

		sc, err := svc.EditSchedule(id, p)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(sc)
	})
}

func registerDeleteScheduleTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_schedule",
		mcp.WithDescription("Delete a schedule."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Schedule identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteSchedule(id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": id})
	})
}

func registerSearchSchedulesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_schedules",
		mcp.WithDescription("Search schedules by substring match across titles and descriptions."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of schedules to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchSchedules(query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerListTodosTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_todos",
		mcp.WithDescription("List the todo list. Kept todos are hidden unless all is set."),
		mcp.WithBoolean("all", mcp.Description("Include kept todos.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.ListTodos(request.GetBool("all", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"todos": list,
			"count": len(list),
		})
	})
}

func registerAddTodoTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_todo",
		mcp.WithDescription("Append a todo."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("What needs doing."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.AddTodo(text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerToggleTodoTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"toggle_todo",
		mcp.WithDescription("Flip a todo between open and completed."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Todo identifier to toggle."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		t, err := svc.ToggleTodo(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(t)
	})
}

func registerKeepTodosTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"keep_todos",
		mcp.WithDescription("Archive every completed todo and return the remaining active list."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := svc.KeepTodos()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"todos": list,
			"count": len(list),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
