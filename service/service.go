// Package service builds the shared context every command works with.
package service

import (
	"context"
	"fftpeg/config"
	"fftpeg/database"
	"fftpeg/database/repository"
	L "fftpeg/logger"
	"fftpeg/organize"
	"fmt"
	"os"
)

type Context struct {
	Config     *config.Config
	ConfigPath string
	Layout     config.Layout
	DB         *database.DB
	Downloads  repository.DownloadRepository
	Tags       repository.TagRepository
	Organizer  *organize.Engine
}

// Open prepares the directory layout, opens and migrates the database and
// seeds auto-tag rules from the config.
func Open(ctx context.Context, cfg *config.Config, configPath string, dbPath string) (*Context, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(layout.Downloads, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", layout.Downloads, err)
	}
	organizer := organize.New(layout)
	err = organizer.Init()
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	err = db.Init(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not initialize database %s: %w", dbPath, err)
	}
	tags, err := repository.NewTagRepository(db, cfg.TagCacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	err = tags.SeedRules(ctx, cfg.AutoTagRules)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not seed auto-tag rules: %w", err)
	}
	L.Debug(fmt.Sprintf("service: base %s, database %s", layout.Base, dbPath))

	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Layout:     layout,
		DB:         db,
		Downloads:  repository.NewDownloadRepository(db),
		Tags:       tags,
		Organizer:  organizer,
	}, nil
}

// SaveRules writes the in-memory auto-tag rules to the config file. The
// rest of the file is reloaded from disk so environment overrides applied
// to Config are not persisted.
func (c *Context) SaveRules() error {
	if c.ConfigPath == "" {
		return nil
	}
	onDisk, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	onDisk.AutoTagRules = c.Config.AutoTagRules
	return onDisk.Save(c.ConfigPath)
}

func (c *Context) Close() error {
	return c.DB.Close()
}
