// Package graph provides the serialization boundary of cardgraph: the input
// records a data source hands to the engine, readers for the supported
// graph file formats, and the scene format written for renderers.
//
// # Input Records
//
// A graph file holds a node list and an edge list:
//
//	{
//	  "nodes": [{"id": "api", "displayName": "API", "labels": ["service"]}],
//	  "edges": [{"from": "api", "to": "db", "label": "reads"}]
//	}
//
// The same shape is accepted as YAML and TOML ([[nodes]] / [[edges]] tables).
// Graphviz DOT files are parsed for node names and edges; attributes in the
// DOT source are ignored.
//
// Readers validate node IDs and edge endpoints so that a [Graph] returned
// without error can be loaded into the engine as-is.
//
// # Scene Output
//
// [Scene] is the positioned, routed view of the visible subset: one [Card]
// per visible node and one route.Path per visible edge, all in content space,
// plus the viewport transform a renderer should apply.
//
//	data, _ := graph.MarshalScene(scene)
//	graph.WriteSceneFile(scene, "scene.json")
package graph
