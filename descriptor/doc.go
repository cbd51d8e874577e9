// Package descriptor provides the resource descriptor: a small metadata record describing where the data of a
// resource lives. Data can be inline (Data), on local disk (Path, resolved against Base or a caller supplied
// default), or at a remote location (Path interpreted as URL, or URL).
//
// The source fields are handles. A resource that was loaded from a descriptor remembers the handles it was
// loaded from and reloads its content as soon as one of them is replaced:
//
//	d.Path = descriptor.String("other.csv") // detected, even if the text did not change
//	*d.Path = "other.csv"                   // NOT detected, the handle is still the same
//
// Descriptors can be decoded from JSON or YAML with Decode, which validates the document against JSONSchema.
package descriptor
