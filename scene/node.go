// Package scene models the celestial scene: a transform tree of renderable
// bodies (planet, shells, moon, satellites, starfield) plus the per-frame
// animation pass that keeps it synchronized with wall-clock time.
//
// The package does no drawing. A renderer consumes the tree after each
// animation pass via world matrices, mesh buffers, and material state.
package scene

import (
	"errors"
	"fmt"

	"cogentcore.org/core/math32"
)

var (
	ErrNodeAttached = errors.New("scene: node already has a parent")
	ErrNodeCycle    = errors.New("scene: node cannot be attached under itself")
	ErrNodeOccupied = errors.New("scene: node already carries a body")
	ErrBodyAttached = errors.New("scene: body already attached to a node")
)

// Node is one joint in the transform tree. Its local transform is composed
// from position, a fixed axial tilt, an animated rotation, and scale; the
// world matrix is the parent's world matrix times the local matrix.
//
// Nodes are not safe for concurrent mutation. All writes happen on the frame
// goroutine.
type Node struct {
	name     string
	parent   *Node
	children []*Node

	pos   math32.Vector3
	tilt  math32.Quat // fixed at construction, composes left of quat
	quat  math32.Quat // animated rotation
	scale math32.Vector3

	body *Body

	local math32.Matrix4
	world math32.Matrix4
}

// NewNode returns a detached node with an identity transform.
func NewNode(name string) *Node {
	n := &Node{name: name}
	n.tilt.SetIdentity()
	n.quat.SetIdentity()
	n.scale.Set(1, 1, 1)
	n.local.SetIdentity()
	n.world.SetIdentity()
	return n
}

// Name returns the node's scene-unique name.
func (n *Node) Name() string { return n.name }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// AddChild attaches child under n. A node has at most one parent; attaching
// an already-parented node is an error rather than an implicit reparent.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return errors.New("scene: nil child")
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s", ErrNodeAttached, child.name)
	}
	for anc := n; anc != nil; anc = anc.parent {
		if anc == child {
			return fmt.Errorf("%w: %s", ErrNodeCycle, child.name)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// SetBody attaches a renderable body to the node. Bodies and nodes pair one
// to one.
func (n *Node) SetBody(b *Body) error {
	if b == nil {
		return errors.New("scene: nil body")
	}
	if n.body != nil {
		return fmt.Errorf("%w: %s", ErrNodeOccupied, n.name)
	}
	if b.node != nil {
		return fmt.Errorf("%w: %s", ErrBodyAttached, b.Name)
	}
	n.body = b
	b.node = n
	return nil
}

// Body returns the attached body, or nil.
func (n *Node) Body() *Body { return n.body }

// SetPos sets the local position.
func (n *Node) SetPos(x, y, z float32) { n.pos.Set(x, y, z) }

// Pos returns the local position.
func (n *Node) Pos() math32.Vector3 { return n.pos }

// SetScale sets a uniform local scale.
func (n *Node) SetScale(s float32) { n.scale.Set(s, s, s) }

// SetTilt fixes the node's axial tilt from an axis and angle in radians.
// Tilt composes to the left of the animated rotation, so spin set later with
// SetAxisRotation happens about the tilted axis. Call once while building
// the scene.
func (n *Node) SetTilt(axis math32.Vector3, angle float32) {
	n.tilt = math32.NewQuatAxisAngle(axis, angle)
}

// SetTiltQuat fixes the node's axial tilt from a prepared quaternion, for
// tilts composed from more than one axis.
func (n *Node) SetTiltQuat(q math32.Quat) { n.tilt = q }

// SetAxisRotation sets the animated local rotation from an axis and angle in
// radians, replacing any previous rotation.
func (n *Node) SetAxisRotation(axis math32.Vector3, angle float32) {
	n.quat = math32.NewQuatAxisAngle(axis, angle)
}

// Rotation returns the animated local rotation.
func (n *Node) Rotation() math32.Quat { return n.quat }

func (n *Node) updateLocalMatrix() {
	rot := n.tilt
	rot.SetMul(n.quat)
	n.local.SetTransform(n.pos, rot, n.scale)
}

// UpdateWorldMatrix recomputes world matrices for n and everything below it.
// Pass nil for a root node. The animator runs this once per frame after all
// rotations are set.
func (n *Node) UpdateWorldMatrix(parWorld *math32.Matrix4) {
	n.updateLocalMatrix()
	if parWorld == nil {
		n.world = n.local
	} else {
		n.world.MulMatrices(parWorld, &n.local)
	}
	for _, child := range n.children {
		child.UpdateWorldMatrix(&n.world)
	}
}

// WorldMatrix returns the matrix computed by the last UpdateWorldMatrix pass.
func (n *Node) WorldMatrix() *math32.Matrix4 { return &n.world }

// WorldPos returns the node's origin in world space, per the last
// UpdateWorldMatrix pass.
func (n *Node) WorldPos() math32.Vector3 {
	return math32.Vec3(0, 0, 0).MulMatrix4(&n.world)
}

// Walk visits n and its descendants depth first, pruning a subtree when fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}
