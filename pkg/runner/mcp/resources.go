package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerTodosResource(srv, svc)
	registerDayTemplate(srv, svc)
	registerMonthTemplate(srv, svc)
}

func registerTodosResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"agenda://todos",
		"Todos",
		mcp.WithResourceDescription("The active todo list."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		list, err := svc.ListTodos(false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"todos": list,
			"count": len(list),
		})
	})
}

func registerDayTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"agenda://days/{date}",
		"Day Schedules",
		mcp.WithTemplateDescription("Schedules on one day (YYYY-MM-DD), in start order."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		date := argument(request, "date")
		if date == "" {
			return nil, fmt.Errorf("date is required")
		}
		list, err := svc.ListSchedules(date)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"date":      date,
			"schedules": list,
			"count":     len(list),
		})
	})
}

func registerMonthTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"agenda://months/{year}/{month}",
		"Month Overview",
		mcp.WithTemplateDescription("Days of a month that have schedules, with counts."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		year, err := strconv.Atoi(argument(request, "year"))
		if err != nil {
			return nil, fmt.Errorf("invalid year: %w", err)
		}
		month, err := strconv.Atoi(argument(request, "month"))
		if err != nil {
			return nil, fmt.Errorf("invalid month: %w", err)
		}
		days, err := svc.Month(year, month)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"year":  year,
			"month": month,
			"days":  days,
		})
	})
}

// argument reads a template variable. Values may arrive as a string or a
// single element list depending on the template matcher.
func argument(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
