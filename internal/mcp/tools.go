package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/mediastudio/internal/domain/generation"
	"github.com/rpggio/mediastudio/internal/domain/project"
)

type emptyInput struct{}

type projectIDInput struct {
	ID int64 `json:"id" jsonschema:"project id"`
}

type createProjectInput struct {
	Name        string `json:"name" jsonschema:"project display name"`
	Description string `json:"description,omitempty" jsonschema:"project description"`
}

type updateProjectInput struct {
	ID          int64   `json:"id" jsonschema:"project id"`
	Name        *string `json:"name,omitempty" jsonschema:"new name, omit to keep"`
	Description *string `json:"description,omitempty" jsonschema:"new description, omit to keep"`
}

type listGenerationsInput struct {
	ProjectID int64 `json:"project_id" jsonschema:"project id"`
}

type statisticsInput struct {
	Scope string `json:"scope,omitempty" jsonschema:"today or all-time, omit for both"`
}

type generateImageInput struct {
	ProjectID      int64  `json:"project_id" jsonschema:"project the image belongs to"`
	Prompt         string `json:"prompt" jsonschema:"what to draw"`
	NegativePrompt string `json:"negative_prompt,omitempty" jsonschema:"what to avoid"`
	Width          int    `json:"width,omitempty" jsonschema:"pixels, default 1024"`
	Height         int    `json:"height,omitempty" jsonschema:"pixels, default 1024"`
	Enhance        bool   `json:"enhance,omitempty" jsonschema:"append quality modifiers to the prompt"`
}

type generateAudioInput struct {
	ProjectID int64  `json:"project_id" jsonschema:"project the audio belongs to"`
	Text      string `json:"text" jsonschema:"text to speak"`
	Voice     string `json:"voice,omitempty" jsonschema:"voice name, default Adam"`
}

type improvePromptInput struct {
	Prompt      string `json:"prompt" jsonschema:"prompt to improve"`
	ContentType string `json:"content_type,omitempty" jsonschema:"image, video or audio"`
}

type generationOutput struct {
	Generation *generation.Generation `json:"generation"`
	URL        string                 `json:"url,omitempty"`
}

type statisticsOutput struct {
	Today   *generation.Statistics `json:"today,omitempty"`
	History *generation.Statistics `json:"history,omitempty"`
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects in creation order",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
		projects, err := svc.Projects.List(ctx)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(projects), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project by id",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Get(ctx, in.ID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		if proj == nil {
			return errorResult(project.ErrProjectNotFound), nil, nil
		}
		return jsonResult(proj), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project to group generations",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in createProjectInput) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Create(ctx, project.CreateRequest{Name: in.Name, Description: in.Description})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(proj), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Rename a project or change its description; omitted fields are kept",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in updateProjectInput) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Update(ctx, in.ID, project.UpdateRequest{Name: in.Name, Description: in.Description})
		if err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(proj), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project and all of its generations; deleting a missing project succeeds",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectIDInput) (*sdkmcp.CallToolResult, any, error) {
		if err := svc.Projects.Delete(ctx, in.ID); err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(map[string]any{"deleted": in.ID}), nil, nil
	})

	// Generations
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_generations",
		Description: "List the generations recorded for a project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in listGenerationsInput) (*sdkmcp.CallToolResult, any, error) {
		gens, err := svc.Generations.List(ctx, in.ProjectID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(gens), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_statistics",
		Description: "Count generations and total provider time for today and all time",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in statisticsInput) (*sdkmcp.CallToolResult, any, error) {
		out, err := statistics(ctx, svc.Generations, in.Scope)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return jsonResult(out), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_image",
		Description: "Generate an image from a prompt, save it and record it on the project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in generateImageInput) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Generations.GenerateImage(ctx, generation.ImageRequest{
			ProjectID:      in.ProjectID,
			Prompt:         in.Prompt,
			NegativePrompt: in.NegativePrompt,
			Width:          in.Width,
			Height:         in.Height,
			Enhance:        in.Enhance,
		})
		if err != nil {
			logger.Debug("generate_image failed", "project_id", in.ProjectID, "error", err)
			return errorResult(err), nil, nil
		}
		return jsonResult(generationOutput{Generation: res.Generation, URL: res.ArtifactURL}), nil, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_audio",
		Description: "Synthesize speech from text, save it and record it on the project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in generateAudioInput) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Generations.GenerateAudio(ctx, generation.AudioRequest{
			ProjectID: in.ProjectID,
			Text:      in.Text,
			Voice:     in.Voice,
		})
		if err != nil {
			logger.Debug("generate_audio failed", "project_id", in.ProjectID, "error", err)
			return errorResult(err), nil, nil
		}
		return jsonResult(generationOutput{Generation: res.Generation}), nil, nil
	})

	// Suggestions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "improve_prompt",
		Description: "Rewrite a prompt to be more detailed; falls back to fixed modifiers when no model is available",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in improvePromptInput) (*sdkmcp.CallToolResult, any, error) {
		contentType := in.ContentType
		if contentType == "" {
			contentType = "image"
		}
		improved := svc.Suggestions.ImprovePrompt(ctx, in.Prompt, contentType)
		return jsonResult(map[string]string{"improved_prompt": improved}), nil, nil
	})
}

func statistics(ctx context.Context, gens GenerationService, rawScope string) (statisticsOutput, error) {
	var out statisticsOutput
	if rawScope == "" {
		today, err := gens.Statistics(ctx, generation.ScopeToday)
		if err != nil {
			return out, err
		}
		history, err := gens.Statistics(ctx, generation.ScopeAllTime)
		if err != nil {
			return out, err
		}
		out.Today, out.History = &today, &history
		return out, nil
	}

	scope, err := generation.ParseScope(rawScope)
	if err != nil {
		return out, err
	}
	stats, err := gens.Statistics(ctx, scope)
	if err != nil {
		return out, err
	}
	if scope == generation.ScopeToday {
		out.Today = &stats
	} else {
		out.History = &stats
	}
	return out, nil
}
