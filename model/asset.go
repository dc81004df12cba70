package model

// AssetRole identifies which material slot a loaded texture feeds.
type AssetRole int

const (
	AssetRoleUnknown AssetRole = iota
	AssetRoleSurfaceAlbedo
	AssetRoleSurfaceNormal
	AssetRoleSurfaceRoughness
	AssetRoleCloudAlbedo
	AssetRoleNightAlbedo
	AssetRoleMoonAlbedo
	AssetRoleMoonNormal
)

var assetRoleNames = map[AssetRole]string{
	AssetRoleUnknown:          "unknown",
	AssetRoleSurfaceAlbedo:    "surface_albedo",
	AssetRoleSurfaceNormal:    "surface_normal",
	AssetRoleSurfaceRoughness: "surface_roughness",
	AssetRoleCloudAlbedo:      "cloud_albedo",
	AssetRoleNightAlbedo:      "night_albedo",
	AssetRoleMoonAlbedo:       "moon_albedo",
	AssetRoleMoonNormal:       "moon_normal",
}

// assetRoleFiles maps each role to its conventional file name inside the
// asset directory.
var assetRoleFiles = map[AssetRole]string{
	AssetRoleSurfaceAlbedo:    "planet_albedo.jpg",
	AssetRoleSurfaceNormal:    "planet_normal.jpg",
	AssetRoleSurfaceRoughness: "planet_roughness.jpg",
	AssetRoleCloudAlbedo:      "clouds.jpg",
	AssetRoleNightAlbedo:      "night_lights.jpg",
	AssetRoleMoonAlbedo:       "moon_albedo.jpg",
	AssetRoleMoonNormal:       "moon_normal.jpg",
}

func (r AssetRole) String() string {
	if name, ok := assetRoleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Filename returns the conventional file name for the role.
func (r AssetRole) Filename() string {
	return assetRoleFiles[r]
}

// Optional reports whether a missing texture for this role is expected in a
// reduced asset set. Optional misses are logged at debug rather than warn.
func (r AssetRole) Optional() bool {
	return r == AssetRoleMoonNormal
}

// TextureRoles lists every role the asset pipeline attempts to load, in a
// stable order.
func TextureRoles() []AssetRole {
	return []AssetRole{
		AssetRoleSurfaceAlbedo,
		AssetRoleSurfaceNormal,
		AssetRoleSurfaceRoughness,
		AssetRoleCloudAlbedo,
		AssetRoleNightAlbedo,
		AssetRoleMoonAlbedo,
		AssetRoleMoonNormal,
	}
}
