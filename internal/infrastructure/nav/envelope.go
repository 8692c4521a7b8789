package nav

import (
	"fmt"

	"github.com/beevik/etree"
)

// Node árbol lógico de campos de una operación. El builder lo serializa al
// envelope SOAP; los mappers lo construyen con los helpers de abajo.
//
// Qualified marca los nodos que llevan el namespace de la operación (la
// operación misma y sus argumentos directos); el resto son elementos planos
// del payload (header, direcciones, líneas).
type Node struct {
	Name      string
	Text      string
	Qualified bool
	Children  []Node
}

// el elemento plano con texto (admite cadena vacía como default).
func el(name, text string) Node {
	return Node{Name: name, Text: text}
}

// group elemento plano con hijos.
func group(name string, children ...Node) Node {
	return Node{Name: name, Children: children}
}

// qel elemento con el namespace de la operación y texto.
func qel(name, text string) Node {
	return Node{Name: name, Text: text, Qualified: true}
}

// qgroup elemento con el namespace de la operación y hijos.
func qgroup(name string, children ...Node) Node {
	return Node{Name: name, Children: children, Qualified: true}
}

// buildEnvelope serializa el árbol de una operación dentro de un envelope
// SOAP 1.1 con declaración XML UTF-8. El namespace de la operación se liga al
// prefijo ns1 en el elemento de la operación.
func buildEnvelope(namespace string, operation Node) ([]byte, error) {
	if operation.Name == "" {
		return nil, fmt.Errorf("nav: operación sin nombre")
	}
	if namespace == "" {
		return nil, fmt.Errorf("nav: operación %s sin namespace", operation.Name)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("SOAP-ENV:Envelope")
	env.CreateAttr("xmlns:SOAP-ENV", nsSOAPEnv)
	body := env.CreateElement("SOAP-ENV:Body")

	opEl := body.CreateElement("ns1:" + operation.Name)
	opEl.CreateAttr("xmlns:ns1", namespace)
	opEl.SetText(operation.Text)
	for _, child := range operation.Children {
		appendNode(opEl, child)
	}

	return doc.WriteToBytes()
}

func appendNode(parent *etree.Element, n Node) {
	tag := n.Name
	if n.Qualified {
		tag = "ns1:" + n.Name
	}
	elem := parent.CreateElement(tag)
	if n.Text != "" {
		elem.SetText(n.Text)
	}
	for _, child := range n.Children {
		appendNode(elem, child)
	}
}
