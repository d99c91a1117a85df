package security

// PopularNames are well-known crates that typosquatters imitate, checked
// in order.
var PopularNames = []string{
	"serde",
	"tokio",
	"reqwest",
	"actix",
	"rocket",
	"diesel",
	"clap",
	"futures",
	"rand",
	"log",
	"chrono",
	"lazy_static",
	"wasm-bindgen",
	"regex",
	"hyper",
	"rayon",
	"anyhow",
	"thiserror",
}

// CommonLicenseTokens are lower-case substrings that mark a license as
// one of the widely used open source licenses.
var CommonLicenseTokens = []string{
	"mit",
	"apache",
	"gpl",
	"lgpl",
	"bsd",
	"mpl",
	"unlicense",
	"isc",
	"zlib",
	"wtfpl",
	"cc0",
	"boost",
	"artistic",
	"mozilla",
	"zlib/libpng",
}
