package rdf

// Well-known vocabulary IRIs used by the converter and its hosts
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"

	RDFType       = RDFNamespace + "type"
	RDFLangString = RDFNamespace + "langString"
	RDFSLabel     = RDFSNamespace + "label"
	XSDString     = XSDNamespace + "string"
)
