package mcpadapt

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// serverConfigFile mirrors the Claude-desktop-style MCP configuration file:
//
//	{
//	  "mcpServers": {
//	    "echo": {"command": "uv", "args": ["run", "src/echo.py"]},
//	    "docs": {"url": "http://localhost:8000/mcp", "transport": "streamable-http"}
//	  }
//	}
type serverConfigFile struct {
	MCPServers map[string]serverConfigEntry `json:"mcpServers"`
}

type serverConfigEntry struct {
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	URL       string            `json:"url,omitempty"`
	Transport TransportKind     `json:"transport,omitempty"`
}

// LoadSpecs reads server specs from a JSON configuration file. Entries are
// returned sorted by server name so composition order is deterministic.
func LoadSpecs(path string) ([]ServerSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mcpadapt: reading server config: %w", err)
	}
	return ParseSpecs(data)
}

// ParseSpecs parses server specs from JSON configuration bytes.
func ParseSpecs(data []byte) ([]ServerSpec, error) {
	var cfg serverConfigFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("mcpadapt: parsing server config: %w", err)
	}

	names := make([]string, 0, len(cfg.MCPServers))
	for name := range cfg.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]ServerSpec, 0, len(names))
	for _, name := range names {
		e := cfg.MCPServers[name]
		spec := ServerSpec{
			Name:      name,
			Command:   e.Command,
			Args:      e.Args,
			Env:       e.Env,
			URL:       e.URL,
			Transport: e.Transport,
		}
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("server %q: %w", name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
