package skirmish

// Version is the library release identifier, reported by the CLI and the
// MCP server handshake.
const Version = "0.1.0"
