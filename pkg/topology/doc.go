// Package topology defines the network topology data model: nodes (hosts and
// network devices), links between them, and the ingestion step that turns an
// upstream discovery payload into the live collections used by the layout
// engine.
//
// # Nodes
//
// A [Node] is identified by its IP address. Network devices aggregate the
// interfaces discovered behind them in [Node.Interfaces]; their [Status] is
// derived from those interfaces rather than from a host record.
//
// Node kind and status are tagged variants ([Kind], [Status]) resolved once by
// [Node.Resolve] when a node is ingested or its host record changes. Nothing
// downstream inspects the raw host record to decide what a node is.
//
// # Links
//
// A [Link] starts with bare endpoint identifiers ([Link.SourceID],
// [Link.TargetID]). The simulation's link force resolves them into the node
// pointers held by the graph ([Link.Source], [Link.Target]); identity matters,
// so links must always be bound against the same node objects the graph owns.
//
// # Ingestion
//
// [ReadPayload] decodes JSON or YAML discovery payloads and [Ingest] converts
// them, deduplicating nodes by trimmed IP and dropping links whose endpoints
// are unknown:
//
//	p, err := topology.ReadPayloadFile("site.yaml")
//	if err != nil {
//	    return err
//	}
//	nodes, links := topology.Ingest(p)
package topology
