// Package mcpadapt adapts tools exposed by MCP (Model Context Protocol)
// servers into the native tool types of Go agent frameworks.
//
// Given one or more running MCP servers and a [ToolAdapter] for the target
// framework, the package connects to every server, discovers its tools, and
// returns framework-native tool objects whose invocation forwards to the
// owning server. The wire protocol is consumed through the official MCP Go
// SDK; this package contributes the lifecycle and concurrency bridge on top
// of it plus the per-framework adaptation.
//
// # Quick Start
//
//	adapt, err := mcpadapt.New(anthropic.NewAdapter(), []mcpadapt.ServerSpec{
//	    mcpadapt.StdioSpec("echo", "uv", "run", "src/echo.py"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tools, err := adapt.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapt.Close()
//
// Or scoped to a function, with teardown handled on return:
//
//	err := mcpadapt.WithTools(ctx, anthropic.NewAdapter(), specs,
//	    func(tools []*anthropic.Tool) error {
//	        // use tools; sessions stay alive until this returns
//	        return nil
//	    })
//
// # Sub-packages
//
//   - [anthropic] adapts tools for the Anthropic Messages API.
//   - [openai] adapts tools for OpenAI chat completions.
//   - [googlegenai] adapts tools for Google Gemini function calling.
//   - [langchain] adapts tools for langchaingo agents.
package mcpadapt
