package cron

import (
	"LittleStories/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	reindexSpec     string
	storyReindexJob *job.StoryReindexJob
}

// NewCronManager reindexSpec 使用带秒的 6 段表达式
func NewCronManager(reindexSpec string, storyReindexJob *job.StoryReindexJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		reindexSpec:     reindexSpec,
		storyReindexJob: storyReindexJob,
	}
}

// RegisterJobs 注册定时任务，未启用搜索时没有任务可注册
func (s *Manager) RegisterJobs() error {
	if s.storyReindexJob == nil {
		return nil
	}
	if _, err := s.engine.AddJob(s.reindexSpec, cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(s.storyReindexJob)); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started", "jobs", len(s.engine.Entries()))
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron engine stopping")
	<-s.engine.Stop().Done()
}
