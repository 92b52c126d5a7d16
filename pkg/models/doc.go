// Package models defines the in-memory duc document: the root DucFile
// aggregate, its element variants, stack entities, blocks, attachments and
// the version graph.
//
// Cross references (element group ids, version parent ids) are plain
// identifiers resolved through explicit index functions such as
// DucFile.ElementIndex and VersionGraph.Nodes.
//
// Every type has a camelCase JSON projection. Elements project as flat
// objects carrying a "type" member; history deltas patch that projection.
package models
