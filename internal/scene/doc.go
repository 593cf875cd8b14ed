// Package scene loads declarative UI scenes from YAML and plays them
// against a vtree reconciler.
//
// A scene declares function components and stateful classes as element
// templates, then lists the steps to apply:
//
//	functions:
//	  Label:
//	    host: TextLabel
//	    props:
//	      Text: "Count: {{props.count}}"
//	classes:
//	  Counter:
//	    state: {count: 0}
//	    render:
//	      host: Frame
//	      children:
//	        label: {function: Label, props: {count: "{{state.count}}"}}
//	        badge: {host: ImageLabel, when: state.count}
//	steps:
//	  - root: {class: Counter}
//	  - setState: {state: {count: 1}}
//	  - unmount: true
//
// Placeholders are substituted when a template renders. A prop that is
// exactly one placeholder keeps the value's type. An element with a when
// condition is left out unless the condition is truthy.
//
// Scenes are read from local paths or from S3:
//
//	s, err := scene.Load(ctx, "s3://my-bucket/scenes/counter.yaml")
//	p := scene.NewPlayer(s, reconciler, screen, "app")
//	err = p.Run(ctx)
package scene
