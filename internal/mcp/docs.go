package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `mediastudio turns text into images, video and speech, grouped by project.

Core concepts:
- Project: a named container. Deleting it deletes its generations.
- Generation: one successful provider call (image, video or audio) with its prompt, saved file and provider time.
- A failed provider call records nothing.

Workflow:
1) list_projects or create_project to get a project id.
2) improve_prompt to polish a prompt (always answers, even without a language model).
3) generate_image / generate_audio with the project id.
4) list_generations and get_statistics to review output.

Errors come back as {code, message, recovery_hint}. PROVIDER_* codes name the failure kind:
UNCONFIGURED, UNAUTHORIZED, RATE_LIMITED, TIMEOUT, REJECTED, MALFORMED, UNAVAILABLE.

Docs:
- studio://docs/providers
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "studio://docs/providers",
		Name:        "docs_providers",
		Title:       "Provider behaviour",
		Description: "Which provider backs each tool, defaults, and how failures surface.",
		Content: `# Providers

| Tool | Provider | Defaults |
|---|---|---|
| generate_image | Replicate (stability-ai/sdxl) | 1024x1024 |
| generate_audio | ElevenLabs (eleven_multilingual_v2) | voice Adam |
| improve_prompt | OpenAI chat completions (gpt-3.5-turbo) | fixed modifiers when unavailable |

Every generation makes exactly one provider call. There are no retries: a
failed call returns an error and leaves the project unchanged.

Image results are downloaded into the output directory and checked by
decoding them before they are saved. Audio is written as MP3.

## Failure kinds

- UNCONFIGURED: the API key is missing. Nothing was sent.
- UNAUTHORIZED: the provider refused the key.
- RATE_LIMITED: slow down.
- TIMEOUT: the provider did not answer in time.
- REJECTED: the provider refused the input.
- MALFORMED: the reply could not be used.
- UNAVAILABLE: network or provider outage.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
