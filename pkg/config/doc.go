/*
Package config manages settings and job-file parsing for fileq.

	            +-------------+
	            |   JobFile   |
	            | (Settings)  |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+  +----+----+
	|  YAML   |   |   HCL   |  |  JSON   |
	| Parser  |   | Parser  |  | Parser  |
	+---------+   +---------+  +---------+

🎯 Purpose:
- Parses job files declaring queued operations
- Carries the execution settings the queue reads per run
- Validates values and applies defaults
- Supports multiple config formats

🔄 Flow:
1. Reads the job file from disk
2. Picks a parser by file extension (.fileq tries YAML then HCL)
3. Validates kinds, sources, destinations, exclude globs
4. Hands the validated jobs and settings to the CLI

⚡ Key Responsibilities:
- Format abstraction (YAML, HCL, JSON)
- Schema validation with actionable errors
- Default value management (buffer size, history bound)
- Path normalization

🤝 Interfaces:
- Parser: format-specific parsing
- JobFile/Job/Settings: validated, type-safe access

📝 Design Philosophy:
The config package is the source of truth for everything user-declared. The
queue itself never reads files of its own; it receives a Settings snapshot
and a stream of requests. Unknown fields are rejected in every format so a
typo fails loudly instead of silently doing nothing.
*/
package config
