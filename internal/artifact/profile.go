package artifact

import (
	"github.com/hmaslab/ha-adapter/internal/hub"
	"github.com/hmaslab/ha-adapter/internal/rdf"
)

// newGraph returns a graph with the fixed prefix set every published
// document carries.
func newGraph() *rdf.Graph {
	g := rdf.NewGraph()
	g.Bind("websub", rdf.NSWebSub)
	g.Bind("hctl", rdf.NSHCTL)
	g.Bind("js", rdf.NSJS)
	g.Bind("hmas", rdf.NSHMAS)
	g.Bind("ex", rdf.NSEX)
	g.Bind("wotsec", rdf.NSWotSec)
	g.Bind("htv", rdf.NSHTV)
	g.Bind("jacamo", rdf.NSJacamo)
	g.Bind("td", rdf.NSTD)
	return g
}

// addAction attaches one affordance with its form to a subject.
func addAction(g *rdf.Graph, subj rdf.Term, a Action) {
	act := g.NewBlank()
	g.Add(subj, rdf.IRI(rdf.PredHasActionAff), act)
	g.Add(act, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassActionAffordance))
	g.Add(act, rdf.IRI(rdf.TypeRDF), rdf.IRI(a.TypeIRI))
	g.Add(act, rdf.IRI(rdf.PredName), rdf.Literal(a.Name))
	g.Add(act, rdf.IRI(rdf.PredTitle), rdf.Literal(a.Name))

	form := g.NewBlank()
	g.Add(act, rdf.IRI(rdf.PredHasForm), form)
	g.Add(form, rdf.IRI(rdf.PredMethodName), rdf.Literal(a.Method))
	g.Add(form, rdf.IRI(rdf.PredHasTarget), rdf.IRI(a.Target))
	g.Add(form, rdf.IRI(rdf.PredForContentType), rdf.Literal(a.ContentType))
	g.Add(form, rdf.IRI(rdf.PredHasOperationType), rdf.IRI(rdf.OpInvokeAction))
	if a.SubProtocol != "" {
		g.Add(form, rdf.IRI(rdf.PredForSubProtocol), rdf.Literal(a.SubProtocol))
	}
}

// addWorkspace writes the workspace node, its fixed affordances, its
// contained artifacts and its resource profile into g.
func addWorkspace(g *rdf.Graph, area hub.Area, devices []hub.Device, base string) {
	bs := trimSlash(base)
	ws := rdf.IRI(WorkspaceURI(base, area.AreaID))
	profile := rdf.IRI(WorkspaceProfileURI(base, area.AreaID))
	artDir := bs + "/workspaces/" + area.AreaID + "/artifacts/"

	g.Add(ws, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassThing))
	g.Add(ws, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassWorkspace))
	g.Add(ws, rdf.IRI(rdf.PredTitle), rdf.Literal(area.Name))

	sec := g.NewBlank()
	g.Add(ws, rdf.IRI(rdf.PredHasSecurityConfig), sec)
	g.Add(sec, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassNoSecurityScheme))

	addAction(g, ws, Action{Name: "createArtifact", TypeIRI: rdf.TypeCreateArtifact, Method: "POST", Target: artDir, ContentType: "text/turtle"})
	addAction(g, ws, Action{Name: "joinWorkspace", TypeIRI: rdf.TypeJoinWorkspace, Method: "POST", Target: bs + "/workspaces/" + area.AreaID + "/join", ContentType: "application/json"})
	addAction(g, ws, Action{Name: "quitWorkspace", TypeIRI: rdf.TypeQuitWorkspace, Method: "POST", Target: bs + "/workspaces/" + area.AreaID + "/leave", ContentType: "application/json"})
	addAction(g, ws, Action{Name: "subscribeToWorkspace", TypeIRI: rdf.TypeSubscribeWorkspace, Method: "POST", Target: bs + "/hub/", ContentType: "application/json", SubProtocol: "websub"})

	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = d.ID
		}
		art := rdf.IRI(URI(base, area.AreaID, name))
		g.Add(art, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassArtifact))
		g.Add(ws, rdf.IRI(rdf.PredContains), art)
	}

	g.Add(profile, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassResourceProfile))
	g.Add(profile, rdf.IRI(rdf.PredIsProfileOf), ws)
}

// WorkspacesGraph lists every area as a workspace.
func WorkspacesGraph(areas []hub.Area, base string) *rdf.Graph {
	g := newGraph()
	for _, a := range areas {
		addWorkspace(g, a, nil, base)
	}
	return g
}

// WorkspaceGraph describes one area with the artifacts it contains.
func WorkspaceGraph(area hub.Area, devices []hub.Device, base string) *rdf.Graph {
	g := newGraph()
	addWorkspace(g, area, devices, base)
	return g
}

// ArtifactsGraph lists the artifacts of one workspace with titles.
func ArtifactsGraph(area hub.Area, devices []hub.Device, base string) *rdf.Graph {
	g := newGraph()
	ws := rdf.IRI(WorkspaceURI(base, area.AreaID))
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = d.ID
		}
		art := rdf.IRI(URI(base, area.AreaID, name))
		g.Add(art, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassArtifact))
		g.Add(ws, rdf.IRI(rdf.PredContains), art)
		g.Add(art, rdf.IRI(rdf.PredTitle), rdf.Literal(name))
	}
	return g
}

// Graph renders a full artifact description as a thing description
// with its affordances and resource profile.
func (d *Description) Graph(base string) *rdf.Graph {
	g := newGraph()
	art := rdf.IRI(URI(base, d.AreaID, d.Name))
	ws := rdf.IRI(WorkspaceURI(base, d.AreaID))
	profile := rdf.IRI(ProfileURI(base, d.AreaID, d.Name))

	g.Add(art, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassThing))
	g.Add(art, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassArtifact))
	g.Add(art, rdf.IRI(rdf.PredTitle), rdf.Literal(d.Name))
	if d.HasDomain("light") {
		g.Add(art, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.TypeHueLamp))
	}

	sec := g.NewBlank()
	g.Add(art, rdf.IRI(rdf.PredHasSecurityConfig), sec)
	g.Add(sec, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassNoSecurityScheme))

	for _, a := range d.Actions {
		addAction(g, art, a)
	}

	g.Add(art, rdf.IRI(rdf.PredIsContainedIn), ws)
	g.Add(ws, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassWorkspace))
	g.Add(profile, rdf.IRI(rdf.TypeRDF), rdf.IRI(rdf.ClassResourceProfile))
	g.Add(profile, rdf.IRI(rdf.PredIsProfileOf), art)
	return g
}
