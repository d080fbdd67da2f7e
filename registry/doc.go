/*
The registry package discovers handler modules under a directory
and indexes them by the role they declare.

Building a Registry happens in three steps:

	loaded, err := registry.Walk(ctx, dir, loader)
	descs := registry.Normalize(loaded...)
	reg := registry.Build(log, descs...)

A [Cache] reloads the module behind a [Descriptor] when its file changes.
Only the module and its modification time are replaced;
paths, roles and capabilities stay as they were when the Registry was built.
*/
package registry
