package ro

import "github.com/geoknoesis/rosrs-go/rdf"

// Namespaces of the vocabularies a Research Object manifest is written in.
const (
	NamespaceRO      = "http://purl.org/wf4ever/ro#"
	NamespaceORE     = "http://www.openarchives.org/ore/terms/"
	NamespaceAO      = "http://purl.org/ao/"
	NamespaceDCTerms = "http://purl.org/dc/terms/"
)

var (
	// ResearchObject is the class of the aggregation itself.
	ResearchObject = rdf.IRI{Value: NamespaceRO + "ResearchObject"}
	// AnnotatesAggregatedResource links an annotation to the resource it describes.
	AnnotatesAggregatedResource = rdf.IRI{Value: NamespaceRO + "annotatesAggregatedResource"}

	// Aggregates links the RO to each aggregated resource.
	Aggregates = rdf.IRI{Value: NamespaceORE + "aggregates"}
	// Proxy is the class of proxy resources created by the service.
	Proxy = rdf.IRI{Value: NamespaceORE + "Proxy"}
	// ProxyFor links a proxy to the resource it stands for. The service also
	// uses it as a link relation on proxy creation responses.
	ProxyFor = rdf.IRI{Value: NamespaceORE + "proxyFor"}

	// AnnotationBody links an annotation to the graph holding its statements.
	AnnotationBody = rdf.IRI{Value: NamespaceAO + "body"}

	DCTermsIdentifier  = rdf.IRI{Value: NamespaceDCTerms + "identifier"}
	DCTermsTitle       = rdf.IRI{Value: NamespaceDCTerms + "title"}
	DCTermsCreator     = rdf.IRI{Value: NamespaceDCTerms + "creator"}
	DCTermsCreated     = rdf.IRI{Value: NamespaceDCTerms + "created"}
	DCTermsDescription = rdf.IRI{Value: NamespaceDCTerms + "description"}
)
