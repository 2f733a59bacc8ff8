package packagekit

// Group is one of the service's enumerated package categories. The wire
// protocol uses the small integer codes; the browse UI and the SearchGroups
// method use the stable lowercase tokens.
type Group uint32

const (
	GroupUnknown Group = iota
	GroupAccessibility
	GroupAccessories
	GroupAdminTools
	GroupCommunication
	GroupDesktopGNOME
	GroupDesktopKDE
	GroupDesktopOther
	GroupDesktopXFCE
	GroupEducation
	GroupFonts
	GroupGames
	GroupGraphics
	GroupInternet
	GroupLegacy
	GroupLocalization
	GroupMaps
	GroupMultimedia
	GroupNetwork
	GroupOffice
	GroupOther
	GroupPowerManagement
	GroupProgramming
	GroupPublishing
	GroupRepos
	GroupSecurity
	GroupServers
	GroupSystem
	GroupVirtualization
	GroupScience
	GroupDocumentation
	GroupElectronics
)

const unknownGroupToken = "unknown"

var groupTokens = map[Group]string{
	GroupAccessibility:   "accessibility",
	GroupAccessories:     "accessories",
	GroupAdminTools:      "admin-tools",
	GroupCommunication:   "communication",
	GroupDesktopGNOME:    "desktop-gnome",
	GroupDesktopKDE:      "desktop-kde",
	GroupDesktopOther:    "desktop-other",
	GroupDesktopXFCE:     "desktop-xfce",
	GroupEducation:       "education",
	GroupFonts:           "fonts",
	GroupGames:           "games",
	GroupGraphics:        "graphics",
	GroupInternet:        "internet",
	GroupLegacy:          "legacy",
	GroupLocalization:    "localization",
	GroupMaps:            "maps",
	GroupMultimedia:      "multimedia",
	GroupNetwork:         "network",
	GroupOffice:          "office",
	GroupOther:           "other",
	GroupPowerManagement: "power-management",
	GroupProgramming:     "programming",
	GroupPublishing:      "publishing",
	GroupRepos:           "repos",
	GroupSecurity:        "security",
	GroupServers:         "servers",
	GroupSystem:          "system",
	GroupVirtualization:  "virtualization",
	GroupScience:         "science",
	GroupDocumentation:   "documentation",
	GroupElectronics:     "electronics",
}

var groupDisplayNames = map[Group]string{
	GroupAccessibility:   "Accessibility",
	GroupAccessories:     "Accessories",
	GroupAdminTools:      "Administration Tools",
	GroupCommunication:   "Communication",
	GroupDesktopGNOME:    "GNOME Desktop",
	GroupDesktopKDE:      "KDE Desktop",
	GroupDesktopOther:    "Other Desktops",
	GroupDesktopXFCE:     "Xfce Desktop",
	GroupEducation:       "Education",
	GroupFonts:           "Fonts",
	GroupGames:           "Games",
	GroupGraphics:        "Graphics",
	GroupInternet:        "Internet",
	GroupLegacy:          "Legacy",
	GroupLocalization:    "Localization",
	GroupMaps:            "Maps",
	GroupMultimedia:      "Multimedia",
	GroupNetwork:         "Network",
	GroupOffice:          "Office",
	GroupOther:           "Other",
	GroupPowerManagement: "Power Management",
	GroupProgramming:     "Programming",
	GroupPublishing:      "Publishing",
	GroupRepos:           "Repositories",
	GroupSecurity:        "Security",
	GroupServers:         "Servers",
	GroupSystem:          "System",
	GroupVirtualization:  "Virtualization",
	GroupScience:         "Science",
	GroupDocumentation:   "Documentation",
	GroupElectronics:     "Electronics",
}

var groupCodes = make(map[string]Group, len(groupTokens))

func init() {
	for g, tok := range groupTokens {
		groupCodes[tok] = g
	}
}

// Token returns the stable lowercase identifier for the group, or "unknown"
// for codes this client does not recognize.
func (g Group) Token() string {
	if tok, ok := groupTokens[g]; ok {
		return tok
	}
	return unknownGroupToken
}

// DisplayName returns a human-readable name for the group.
func (g Group) DisplayName() string {
	if name, ok := groupDisplayNames[g]; ok {
		return name
	}
	return "Uncategorized"
}

// GroupFromToken maps a category token back to its wire code. Unrecognized
// tokens map to GroupUnknown.
func GroupFromToken(token string) Group {
	if g, ok := groupCodes[token]; ok {
		return g
	}
	return GroupUnknown
}

// Groups returns every category known to this client, in wire-code order,
// excluding the unknown sentinel.
func Groups() []Group {
	groups := make([]Group, 0, len(groupTokens))
	for g := GroupAccessibility; g <= GroupElectronics; g++ {
		groups = append(groups, g)
	}
	return groups
}

// GroupInfo summarizes one category for the browse view. It is recomputed
// from a freshly loaded package list every time the view loads.
type GroupInfo struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description"`
	PackageCount   int    `json:"package_count"`
	InstalledCount int    `json:"installed_count"`
}

// ComputeGroupInfo derives the browse summary for a category from the
// packages currently listed under it.
func ComputeGroupInfo(g Group, pkgs []Package) GroupInfo {
	info := GroupInfo{
		ID:           g.Token(),
		DisplayName:  g.DisplayName(),
		Description:  "Packages in the " + g.DisplayName() + " category",
		PackageCount: len(pkgs),
	}
	for _, pkg := range pkgs {
		if pkg.Installed {
			info.InstalledCount++
		}
	}
	return info
}
