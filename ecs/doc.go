// Package ecs bridges stage bus traffic into ECS worlds.
//
// The primary adapter is [NewDonburiBridge], which republishes scene
// requests and completions into a [Donburi] world as typed events.
// Subscribe to [SceneEventType] in your ECS systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewDonburiBridge(director.Bus(), world)
//	defer bridge.Close()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
