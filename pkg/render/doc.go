// Package render provides an in-memory host platform for vtree.
//
// Renderer implements vtree.Renderer over Objects: each host node becomes
// an Object named by its key and attached to its host parent. Every
// mutation is recorded as an Op, which makes the package useful both for
// tests and for inspecting what a reconcile actually did.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{Pretty: true})
//	r := vtree.New(renderer)
//	screen := render.NewContainer("screen")
//
//	tree, err := r.MountTree(app, screen, "app")
//	markup, err := renderer.RenderToString(screen)
//
// # Markup
//
// Objects render as elements named by their class with a Name attribute
// followed by props in key order:
//
//	<Container Name="screen">
//	  <Frame Name="app" Size="10">
//	    <TextLabel Name="title" Text="hi"/>
//	  </Frame>
//	</Container>
//
// Props whose names start with "_" and function-valued props (event
// handlers) are applied to objects but not rendered.
package render
