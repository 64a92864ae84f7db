package tagging

// Keys.
const (
	Bundle = "Bundle" // NAME:VERSION of the bundle a resource was created for

	Manager = "Manager"

	Name = "Name"

	BundlekitVersion = "BundlekitVersion"
)

// Values.
const (
	Bundlekit = "Bundlekit"
)

type Map map[string]string

func Merge(maps ...Map) Map {
	merged := Map{}
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
